package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sinn357/investment-app-sub000/internal/cycle"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute cycle scores from the latest snapshot",
		Long:  "Scores the macro, credit, and sentiment cycles against the most recent stored indicator values and classifies each into a regime.",
		RunE:  runScore,
	}
	cmd.Flags().String("cycle", "all", "Cycle to score (macro|credit|sentiment|all)")
	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.store.LatestSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	which, _ := cmd.Flags().GetString("cycle")
	if which == "all" {
		results, err := a.engine.CalculateAll(snap)
		if err != nil {
			return err
		}
		return emitJSON(results)
	}

	result, err := a.engine.Calculate(cycle.Kind(which), snap)
	if err != nil {
		return err
	}
	return emitJSON(result)
}
