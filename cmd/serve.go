package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/api"
)

var servePort int // Listen port; 0 uses the configured value

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulators over HTTP with Prometheus metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := api.Serve(ctx, cfg); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config, 9095)")
}
