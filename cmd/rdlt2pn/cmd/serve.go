package cmd

import (
	"github.com/L8zn/CMSC-199.2-Thesis/env"
	"github.com/L8zn/CMSC-199.2-Thesis/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var port int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()
		e := env.LoadEnv(logger)
		if port != 0 {
			e.Port = port
		}
		return server.New(logger, e.MaxSteps).Run(e.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides RDLT2PN_PORT)")
}
