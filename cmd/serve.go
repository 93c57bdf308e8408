package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beanbocchi/multipart/config"
	"github.com/beanbocchi/multipart/internal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, overrides app.addr")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("addr") {
		cfg.App.Addr, _ = cmd.Flags().GetString("addr")
	}

	logger := internal.SetupLogger(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := internal.NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
