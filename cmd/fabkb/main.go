// Package main provides the fabkb CLI for the semiconductor TCO knowledge
// base: corpus ingestion, index construction, and one-off retrieval
// queries.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fabwise/fabkb/internal/config"
	"github.com/fabwise/fabkb/internal/corpus"
	"github.com/fabwise/fabkb/internal/embedding"
	"github.com/fabwise/fabkb/internal/engine"
	"github.com/fabwise/fabkb/internal/retriever"
	"github.com/fabwise/fabkb/internal/sources"
)

var (
	cfgFile string
	topK    int
	keyword bool
)

var rootCmd = &cobra.Command{
	Use:   "fabkb",
	Short: "Semiconductor TCO knowledge base tool",
	Long:  "CLI for ingesting the TCO knowledge corpus and running retrieval queries against it",
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ingest all sources and build the retrieval index",
	Long: `Loads every configured dataset into the corpus and builds the index.

This command:
1. Runs all source adapters in order (failures are isolated per source)
2. Builds the dense vector index when the embedding backend is reachable
3. Falls back to sparse token-overlap retrieval otherwise
4. Prints ingestion and index statistics

Environment variables:
  FABKB_DATA_DIR   Corpus data directory (default: data)
  OPENAI_API_KEY   Embedding backend key (optional; sparse mode without it)
  USE_EMBEDDINGS   Set to false to force sparse retrieval
  EMBEDDING_MODEL  Embedding model name (default: text-embedding-3-small)`,
	RunE: runSync,
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a retrieval query against the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "fabkb.yaml", "config file path")
	queryCmd.Flags().IntVar(&topK, "top-k", 0, "number of documents to retrieve (0 = configured default)")
	queryCmd.Flags().BoolVar(&keyword, "keyword", false, "use the diagnostic keyword search instead of the retriever")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	// Load .env if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	store, retr := buildComponents(cfg)

	fmt.Println("Ingesting sources...")
	result := store.Ingest(ctx)

	fmt.Printf("  Sources: %d/%d\n", result.LoadedSources, result.TotalSources)
	fmt.Printf("  Documents: %d\n", result.TotalDocs)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
	if result.Placeholder {
		fmt.Println("  WARNING: all sources failed, placeholder corpus in use")
	}
	for _, failed := range result.FailedSources {
		fmt.Printf("  - failed %s: %s\n", failed.Name, failed.Reason)
	}

	fmt.Println()
	fmt.Println("Building retrieval index...")
	if err := retr.Init(ctx, store.Documents()); err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	fmt.Printf("  Mode: %s\n", retr.Mode())

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := args[0]
	for _, a := range args[1:] {
		query += " " + a
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	k := topK
	if k <= 0 {
		k = cfg.Retrieval.TopK
	}

	store, retr := buildComponents(cfg)

	if keyword {
		store.Ingest(ctx)
		docs := store.SearchKeyword(query, k)
		for i, doc := range docs {
			fmt.Printf("%d. %s\n   %s\n", i+1, doc.Source, snippet(doc.Content))
		}
		if len(docs) == 0 {
			fmt.Println("No matches.")
		}
		return nil
	}

	eng := engine.New(store, retr, slog.Default())
	rc, err := eng.RetrieveContextFromQuery(ctx, query, k)
	if err != nil {
		return err
	}

	if len(rc.Documents) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, doc := range rc.Documents {
		fmt.Printf("%d. [%.3f] %s\n   %s\n", i+1, rc.RelevanceScores[i], doc.Source, snippet(doc.Content))
	}
	return nil
}

// buildComponents wires the store and retriever from configuration. A
// missing embedding backend is not fatal; the retriever runs sparse.
func buildComponents(cfg config.Config) (*corpus.Store, *retriever.Retriever) {
	logger := slog.Default()

	opts := sources.ChunkOptions{
		MaxChars:        cfg.Chunking.MaxChars,
		Overlap:         cfg.Chunking.Overlap,
		MaxChunksPerDoc: cfg.Chunking.MaxChunksPerDoc,
	}
	store := corpus.NewStore(sources.DefaultSet(cfg.DataDir, opts), logger)

	var backend retriever.Backend
	if cfg.Embedding.Enabled {
		client, err := embedding.NewClient()
		if err != nil {
			logger.Warn("embedding backend unavailable, sparse retrieval only", "error", err)
		} else {
			backend = embedding.NewEmbedder(client, cfg.Embedding.Model, cfg.Embedding.BatchSize)
		}
	}

	return store, retriever.New(backend, logger)
}

// snippet shortens document content for terminal output.
func snippet(s string) string {
	const max = 160
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
