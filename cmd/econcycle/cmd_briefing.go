package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBriefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Generate or reuse the daily briefing",
		Long:  "Aggregates the latest snapshot per category and produces the daily briefing, reusing the cached copy when the underlying data has not changed.",
		RunE:  runBriefing,
	}
	cmd.Flags().Bool("force", false, "Regenerate even when a cached briefing matches the current data")
	return cmd
}

func runBriefing(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.store.LatestSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	result, err := a.briefing.Generate(cmd.Context(), snap, force)
	if err != nil {
		return err
	}

	outcome := "generated"
	if result.Cached {
		outcome = "cached"
	}
	a.metrics.BriefingRequests.WithLabelValues(outcome).Inc()

	return emitJSON(result)
}
