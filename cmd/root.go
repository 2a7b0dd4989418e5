// Package cmd wires the CLI. The bare command runs the HTTP service; the
// solve subcommand runs a single instance offline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andig/evopt/app"
	"github.com/andig/evopt/config"
	"github.com/andig/evopt/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "evopt",
	Short: "Battery charge schedule optimization service",
	Long:  "evopt schedules battery charging, discharging and grid exchange against price and production forecasts. Without a subcommand it serves the optimization HTTP API.",
	RunE:  serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("main")
	svc, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("assemble service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()

	log.Infof("starting evopt")
	return svc.Run(ctx)
}
