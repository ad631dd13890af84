package main

import (
	"github.com/spf13/cobra"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Refresh all enabled indicators",
		Long:  "Fetches and extracts every enabled non-manual indicator in one bounded batch and persists the resulting release records.",
		RunE:  runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	batch, err := a.runner.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	return emitJSON(batch)
}
