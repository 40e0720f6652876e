package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"figure-viewer/internal/modelload"
	"figure-viewer/internal/rig"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var asJSON, noStats bool
	cmd := &cobra.Command{
		Use:   "riginspect <model.glb>",
		Short: "Report skins, bones, animations and geometry of a glTF model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := inspectFile(args[0], !noStats)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			return r.WriteText(out)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noStats, "no-stats", false, "skip vertex, triangle and bounds totals")
	return cmd
}

func inspectFile(path string, withStats bool) (rig.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rig.Report{}, err
	}
	doc, err := modelload.Decode(data)
	if err != nil {
		return rig.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	r := rig.Inspect(doc)
	r.Source = path
	r.FileSize = uint64(len(data))
	if withStats {
		root, err := modelload.FromDocument(doc)
		if err != nil {
			return rig.Report{}, fmt.Errorf("%s: %w", path, err)
		}
		st := rig.Measure(root)
		r.Stats = &st
	}
	return r, nil
}
