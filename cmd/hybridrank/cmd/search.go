package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hybridrank/hybridrank/internal/config"
	"github.com/hybridrank/hybridrank/internal/logging"
	"github.com/hybridrank/hybridrank/internal/output"
)

type searchOptions struct {
	limit          int
	format         string
	includeContext bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot hybrid search",
		Long: `Build the pipeline, run a single query, and print the reranked
results in narrative order.

Examples:
  hybridrank search "legal risks and liability"
  hybridrank search "contract indemnification" --limit 3 --format json
  hybridrank search "authentication policy" --context`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 = configured default)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.includeContext, "context", false, "Attach chunk-context windows to sequential results")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// CLI runs log to file only; stdout stays clean for results.
	logger, cleanup, err := logging.Setup(logging.Config{
		Level:    cfg.Server.LogLevel,
		FilePath: cfg.Server.LogFile,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.New(cmd.OutOrStdout())
	if cfg.Oracle.APIKey == "" {
		out.Warning("no oracle API key configured; relevance falls back to neutral scores")
	}

	reranker, err := buildReranker(cfg, logger)
	if err != nil {
		return err
	}

	contextual, err := reranker.SearchWithContext(cmd.Context(), query, opts.limit, opts.includeContext)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(contextual)
	}

	out.Results(query, contextual.Results)
	if opts.includeContext {
		for chunkID, window := range contextual.Context {
			out.Context(chunkID, window)
		}
	}
	return nil
}
