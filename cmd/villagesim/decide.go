package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/mini-village/internal/brain"
	"github.com/talgya/mini-village/internal/perception"
)

var (
	decideInput    string
	decideFeatures bool
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Decide one action for a perception read as JSON",
	Long:  `Reads a perception JSON document from --in (or stdin) and prints the configured decider's action.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if decideInput != "" && decideInput != "-" {
			f, err := os.Open(decideInput)
			if err != nil {
				return fmt.Errorf("open perception: %w", err)
			}
			defer f.Close()
			in = f
		}
		return decide(in, cmd.OutOrStdout(), decideFeatures)
	},
}

func init() {
	decideCmd.Flags().StringVarP(&decideInput, "in", "i", "", "perception JSON file (stdin when empty or -)")
	decideCmd.Flags().BoolVar(&decideFeatures, "features", false, "also print the encoded feature vector")
}

func decide(in io.Reader, out io.Writer, features bool) error {
	var p perception.Perception
	if err := json.NewDecoder(in).Decode(&p); err != nil {
		return fmt.Errorf("decode perception: %w", err)
	}
	d, err := brain.New(cfg.Decider.Kind, cfg.Decider.Weights, brain.WithThresholds(cfg.Thresholds))
	if err != nil {
		return err
	}

	result := map[string]any{
		"decider": d.Name(),
		"action":  d.Decide(&p),
	}
	if features {
		result["features"] = perception.Encode(&p)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
