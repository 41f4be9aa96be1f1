package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hybridrank/hybridrank/internal/config"
	"github.com/hybridrank/hybridrank/internal/logging"
	"github.com/hybridrank/hybridrank/internal/output"
)

func newContextCmd() *cobra.Command {
	var radius int

	cmd := &cobra.Command{
		Use:   "context <chunk-id>",
		Short: "Show the chunks surrounding a chunk id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunkID, err := strconv.Atoi(args[0])
			if err != nil || chunkID < 1 {
				return cmd.Help()
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, cleanup, err := logging.Setup(logging.Config{
				Level:    cfg.Server.LogLevel,
				FilePath: cfg.Server.LogFile,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			reranker, err := buildReranker(cfg, logger)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Context(chunkID, reranker.GetChunkContext(chunkID, radius))
			return nil
		},
	}

	cmd.Flags().IntVarP(&radius, "radius", "r", 2, "Context window half-width")

	return cmd
}
