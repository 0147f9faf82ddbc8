// Copyright 2025 Pawhaven Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	docindex "github.com/pawhaven/docindex"
	"github.com/pawhaven/docindex/ai"
	"github.com/pawhaven/docindex/api/handlers"
	"github.com/pawhaven/docindex/api/routes"
	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/reindex"
)

func main() {
	app := &cli.App{
		Name:  "docindex",
		Usage: "Knowledge base ingestion and indexing for document files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest files into a folder of the knowledge base",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(commonFlags(),
					&cli.Uint64Flag{
						Name:    "folder",
						Aliases: []string{"f"},
						Usage:   "Folder ID to ingest into",
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of files processed concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: 1200,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Character overlap between consecutive chunks",
						Value: 0,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild chunks and embeddings for stored documents",
				Action: reindexCommand,
				Flags: append(commonFlags(),
					&cli.Uint64Flag{
						Name:  "id",
						Usage: "Document ID to reindex (omit with --all)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Reindex every document in the store",
					},
					&cli.BoolFlag{
						Name:  "errors-only",
						Usage: "With --all, only reindex documents in the error state",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed documents",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags returns the flags shared by every command that opens a store
// and talks to the embedding service.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openLibrary(c *cli.Context) (*docindex.Library, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	lib, err := docindex.OpenLibrary(c.String("db"), docindex.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline(
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	files := make([]core.RawFile, 0, c.Args().Len())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, core.RawFile{
			Name: filepath.Base(path),
			Data: data,
		})
	}

	result, err := pipeline.Ingest(ctx, files, core.ID(c.Uint64("folder")))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	for _, doc := range result.Succeeded {
		fmt.Printf("%d\t%s\t%s\t%d chunks\n", doc.Id, doc.Title, doc.Status, doc.ChunkCount)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "failed: %s: %s\n", failure.Name, failure.Reason)
	}
	fmt.Fprintf(os.Stderr, "Ingested %d of %d files\n",
		len(result.Succeeded), len(result.Succeeded)+result.FailedCount)

	if result.FailedCount > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	if !c.Bool("all") && c.Uint64("id") == 0 {
		return fmt.Errorf("either --id or --all is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	reindexer, err := lib.NewReindexer(pipeline)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	if !c.Bool("all") {
		doc, err := reindexer.Reindex(ctx, core.ID(c.Uint64("id")))
		if err != nil {
			return fmt.Errorf("reindex failed: %w", err)
		}
		fmt.Printf("%d\t%s\t%s\t%d chunks\n", doc.Id, doc.Title, doc.Status, doc.ChunkCount)
		return nil
	}

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		ErrorsOnly:     c.Bool("errors-only"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	bulk := reindex.NewBulk(lib.DocumentRepository(), reindexer, config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := bulk.Run(ctx); err != nil {
		return fmt.Errorf("bulk reindex failed: %w", err)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	reindexer, err := lib.NewReindexer(pipeline)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	engine := gin.Default()
	routes.SetupRoutes(engine, handlers.NewHandlers(pipeline, reindexer, lib.DocumentRepository(), slog.Default()))

	slog.Info("starting API server", "addr", c.String("addr"))
	return engine.Run(c.String("addr"))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
