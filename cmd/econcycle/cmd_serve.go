package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sinn357/investment-app-sub000/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the /metrics and /health endpoints",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides metrics.listen_addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Metrics.ListenAddr
	}
	if addr == "" {
		return fmt.Errorf("no listen address configured")
	}

	log.Info().Str("addr", addr).Msg("serving observability endpoints")
	return metrics.Serve(addr, a.promReg)
}
