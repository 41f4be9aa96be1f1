package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hybridrank/hybridrank/internal/config"
	"github.com/hybridrank/hybridrank/internal/logging"
	"github.com/hybridrank/hybridrank/internal/server"
)

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the search HTTP API",
		Long: `Load the corpus, fit the embedding space, build the vector index,
and serve the search API until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, cleanup, err := logging.Setup(logging.Config{
				Level:         cfg.Server.LogLevel,
				FilePath:      cfg.Server.LogFile,
				WriteToStderr: true,
			})
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			defer cleanup()

			reranker, err := buildReranker(cfg, logger)
			if err != nil {
				return fmt.Errorf("building search pipeline: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(reranker, cfg.Server.Addr(), logger)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Bind address")
	cmd.Flags().IntVarP(&port, "port", "p", 5002, "Listen port")

	return cmd
}
