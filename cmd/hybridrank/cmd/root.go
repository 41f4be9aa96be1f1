// Package cmd provides the CLI commands for hybridrank.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hybridrank/hybridrank/internal/config"
	"github.com/hybridrank/hybridrank/internal/corpus"
	"github.com/hybridrank/hybridrank/internal/embed"
	"github.com/hybridrank/hybridrank/internal/oracle"
	"github.com/hybridrank/hybridrank/internal/search"
	"github.com/hybridrank/hybridrank/internal/textproc"
	"github.com/hybridrank/hybridrank/pkg/version"
)

var configPath string

// NewRootCmd creates the root command for the hybridrank CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hybridrank",
		Short: "Hybrid retrieval-and-rerank search service",
		Long: `hybridrank retrieves passages from a text corpus with a lexical
vector index and reranks them with an external relevance oracle,
presenting results in narrative source order.

Run 'hybridrank serve' to start the HTTP API, or 'hybridrank search'
for a one-shot query from the command line.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("hybridrank version {{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newContextCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// buildReranker constructs the full pipeline from configuration: corpus
// load, embedding fit, index build, and oracle client.
func buildReranker(cfg *config.Config, logger *slog.Logger) (*search.Reranker, error) {
	proc := textproc.NewProcessor()

	loader := corpus.NewLoader(
		cfg.Corpus.Source, cfg.Corpus.Path,
		cfg.Corpus.ChunkSize, cfg.Corpus.ChunkOverlap,
		corpus.WithLogger(logger),
	)
	docs := loader.Load()

	manager := embed.NewManager(
		proc,
		cfg.Embed.MaxFeatures,
		cfg.Embed.UseLSA,
		cfg.Embed.LSAComponents,
		embed.WithManagerLogger(logger),
	)

	scorer := oracle.NewClient(oracle.Options{
		Endpoint:  cfg.Oracle.Endpoint,
		Model:     cfg.Oracle.Model,
		APIKey:    cfg.Oracle.APIKey,
		Timeout:   cfg.Oracle.Timeout,
		CacheSize: cfg.Oracle.ScoreCacheSize,
		Logger:    logger,
	})

	return search.NewReranker(docs, proc, manager, scorer,
		search.WithTopK(cfg.Search.TopK),
		search.WithContextRadius(cfg.Search.ContextRadius),
		search.WithOracleConcurrency(cfg.Search.OracleConcurrency),
		search.WithLogger(logger),
	)
}
