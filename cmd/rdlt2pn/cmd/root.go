package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	outputDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rdlt2pn",
	Short: "Convert RDLT workflow models to Petri nets and analyse their soundness",
	Long: `rdlt2pn converts a Robustness Diagram with Loop and Time controls into a
Petri net, then analyses the net structurally and behaviourally to decide
whether the original workflow's soundness properties are preserved.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "RDLT model file (.json or .yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", ".", "output directory")
}
