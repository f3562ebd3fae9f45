// Copyright 2025 The Vault AI Authors
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	vaultai "github.com/kristianmandrup/vault-ai"
	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/kristianmandrup/vault-ai/config"
	"github.com/kristianmandrup/vault-ai/extract"
	"github.com/kristianmandrup/vault-ai/ingest"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

func main() {
	app := &cli.App{
		Name:  "vault",
		Usage: "Document question answering over a tenant-scoped vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Vector backend (pinecone, qdrant, local)",
				Value:   "local",
				EnvVars: []string{"VAULT_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "backend-endpoint",
				Usage:   "Vector backend base URL",
				EnvVars: []string{"VAULT_BACKEND_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "backend-api-key",
				Usage:   "Vector backend API key",
				EnvVars: []string{"VAULT_BACKEND_API_KEY", "PINECONE_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "data",
				Usage:   "Data directory for the local backend (empty keeps it in memory)",
				EnvVars: []string{"VAULT_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible API base URL",
				Value:   "https://api.openai.com/v1",
				EnvVars: []string{"VAULT_AI_HOST"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Model API key",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-ada-002",
				EnvVars: []string{"VAULT_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "completion-model",
				Usage:   "Completion model name",
				Value:   "gpt-3.5-turbo",
				EnvVars: []string{"VAULT_COMPLETION_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest files into a tenant's namespace",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant UUID",
						Required: true,
						EnvVars:  []string{"VAULT_TENANT"},
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from a tenant's documents",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant UUID",
						Required: true,
						EnvVars:  []string{"VAULT_TENANT"},
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context chunks to retrieve",
						Value: 4,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildConfig(c *cli.Context) (*config.Config, error) {
	backend, err := vectordb.ParseKind(c.String("backend"))
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	cfg.Backend = backend
	cfg.BackendEndpoint = c.String("backend-endpoint")
	cfg.BackendAPIKey = c.String("backend-api-key")
	cfg.LocalPath = c.String("data")
	cfg.TopK = c.Int("top-k")
	cfg.AI = ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModel(c.String("completion-model")),
	)
	return cfg, cfg.Validate()
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	vault, err := vaultai.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer vault.Close()

	var files []ingest.File
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		name := filepath.Base(path)
		files = append(files, ingest.File{
			Name:        name,
			ContentType: extract.ContentTypeForFilename(name),
			Data:        data,
		})
	}

	report, err := vault.Ingest(context.Background(), c.String("tenant"), files)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	vault, err := vaultai.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer vault.Close()

	answer, err := vault.Ask(context.Background(), c.String("tenant"), question)
	if err != nil {
		return err
	}
	return printJSON(answer)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
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
