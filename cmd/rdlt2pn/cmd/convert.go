package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/L8zn/CMSC-199.2-Thesis/convert"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/L8zn/CMSC-199.2-Thesis/rdltfile"
	"github.com/spf13/cobra"
)

var (
	noExtend bool
	maxSteps int
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an RDLT model to a Petri net and print the analysis payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadModel(inputFile)
		if err != nil {
			return err
		}
		res := convert.ConvertGraph(r, !noExtend, maxSteps)
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if res.Err != "" {
			return fmt.Errorf("conversion failed: %s", res.Err)
		}
		return nil
	},
}

func loadModel(path string) (*rdlt.RDLT, error) {
	if path == "" {
		return nil, fmt.Errorf("no input file; use --input")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return rdltfile.YAML{}.Load(f)
	default:
		return rdltfile.JSON{}.Load(f)
	}
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&noExtend, "no-extend", false, "skip the dummy source/sink extension and the analyses")
	convertCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "simulation step bound (0 uses the default)")
}
