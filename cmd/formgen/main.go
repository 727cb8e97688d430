// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	formgen "github.com/poiesic/formgen"
	"github.com/poiesic/formgen/ai"
	"github.com/poiesic/formgen/api"
	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/maintenance"
)

func main() {
	app := &cli.App{
		Name:  "formgen",
		Usage: "AI-assisted form builder with semantic memory",
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
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"FORMGEN_DB"},
					},
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   api.DefaultAddr,
						EnvVars: []string{"FORMGEN_ADDR"},
					},
					&cli.StringFlag{
						Name:     "signing-secret",
						Usage:    "Secret for bearer token MACs",
						Required: true,
						EnvVars:  []string{"FORMGEN_SIGNING_SECRET"},
					},
				),
			},
			{
				Name:      "generate",
				Usage:     "Generate a form from a prompt and print it as JSON",
				ArgsUsage: "<prompt>",
				Action:    generateCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"FORMGEN_DB"},
					},
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Usage:    "Owner subject (e.g. an account name)",
						Required: true,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search an owner's forms by meaning",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"FORMGEN_DB"},
					},
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Usage:    "Owner subject (e.g. an account name)",
						Required: true,
					},
				),
			},
			{
				Name:      "token",
				Usage:     "Issue a bearer token for a subject",
				ArgsUsage: "<subject>",
				Action:    tokenCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "signing-secret",
						Usage:    "Secret for bearer token MACs",
						Required: true,
						EnvVars:  []string{"FORMGEN_SIGNING_SECRET"},
					},
				},
			},
			{
				Name:  "maintain",
				Usage: "Offline maintenance passes over the memory index",
				Subcommands: []*cli.Command{
					{
						Name:   "reembed",
						Usage:  "Regenerate embeddings for all memory records",
						Action: reembedCommand,
						Flags: append(aiFlags(), maintenanceFlags(
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
								EnvVars:  []string{"FORMGEN_DB"},
							})...),
					},
					{
						Name:   "prune",
						Usage:  "Remove memory records whose form no longer exists",
						Action: pruneCommand,
						Flags: maintenanceFlags(
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
								EnvVars:  []string{"FORMGEN_DB"},
							}),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"FORMGEN_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "generation-host",
			Usage:   "Generation service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"FORMGEN_GENERATION_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"FORMGEN_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "generation-model",
			Usage:   "Generation model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"FORMGEN_GENERATION_MODEL"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token for the AI services",
			EnvVars: []string{"FORMGEN_AI_TOKEN"},
		},
	}
}

func maintenanceFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of records to process in each batch",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N records",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for failed operations",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	)
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithGenerationHost(c.String("generation-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithToken(c.String("token")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openDatabase(c *cli.Context) (*formgen.Database, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}

	db, err := formgen.NewDatabase(c.String("db"), formgen.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	auth, err := api.NewAuthenticator(c.String("signing-secret"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipe, err := db.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipe.Release()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	server := api.NewServer(pipe, searcher,
		db.FormRepository(), db.SubmissionRepository(), db.Backend(), auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, c.String("addr"))
}

func generateCommand(c *cli.Context) error {
	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		return fmt.Errorf("prompt is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipe, err := db.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipe.Release()

	owner := core.IDFromContent(c.String("subject"))
	form, err := pipe.Generate(c.Context, owner, prompt)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return printJSON(form)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	owner := core.IDFromContent(c.String("subject"))
	results, err := searcher.Search(c.Context, owner, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No matching forms found")
		return nil
	}
	return printJSON(results)
}

func tokenCommand(c *cli.Context) error {
	subject := c.Args().First()
	if subject == "" {
		return fmt.Errorf("subject is required")
	}

	auth, err := api.NewAuthenticator(c.String("signing-secret"))
	if err != nil {
		return err
	}

	token, err := auth.IssueToken(subject)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func reembedCommand(c *cli.Context) error {
	config, err := maintenanceConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := db.NewReembedder(config, os.Stderr).Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func pruneCommand(c *cli.Context) error {
	config, err := maintenanceConfigFromFlags(c)
	if err != nil {
		return err
	}

	// The pruner never calls the AI services; default config is fine.
	db, err := formgen.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pruned, err := db.NewPruner(config, os.Stderr).Run(c.Context)
	if err != nil {
		return fmt.Errorf("pruning failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Pruned %d orphaned memory records\n", pruned)
	return nil
}

func maintenanceConfigFromFlags(c *cli.Context) (*maintenance.Config, error) {
	config := &maintenance.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return nil, fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}
	return config, nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
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
