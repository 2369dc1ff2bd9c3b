// Copyright 2025 Poiesic Systems
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
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/server"
	"github.com/poiesic/answerit/source/supabase"
	"github.com/poiesic/answerit/vectorstore/pinecone"
)

func main() {
	app := &cli.App{
		Name:  "answerit",
		Usage: "Retrieval-augmented knowledge base for team chat and documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "openai-key",
				Usage:   "OpenAI API key",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "pinecone-key",
				Usage:   "Pinecone API key",
				EnvVars: []string{"PINECONE_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "pinecone-host",
				Usage:   "Pinecone index host URL",
				EnvVars: []string{"PINECONE_HOST"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the query API over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
						Value:   3001,
						EnvVars: []string{"PORT"},
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest recent chat messages and stored files",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "database-url",
						Usage:   "Postgres connection string",
						EnvVars: []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "supabase-url",
						Usage:   "Supabase project URL",
						EnvVars: []string{"SUPABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "supabase-key",
						Usage:   "Supabase anon key",
						EnvVars: []string{"SUPABASE_ANON_KEY"},
					},
					&cli.StringFlag{
						Name:  "bucket",
						Usage: "Storage bucket holding uploaded files",
						Value: "uploads",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recent messages to ingest",
						Value: answerit.DefaultMessageBatchSize,
					},
					&cli.BoolFlag{
						Name:  "skip-files",
						Usage: "Ingest messages only",
					},
				},
			},
			{
				Name:      "upload-docs",
				Usage:     "Chunk and ingest a directory of reference documents",
				Action:    uploadDocsCommand,
				ArgsUsage: "<directory>",
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against the ingested documents",
				Action:    askCommand,
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of passages to retrieve",
					},
					&cli.BoolFlag{
						Name:  "chat",
						Usage: "Query the chat namespace instead of documents",
					},
				},
			},
			{
				Name:   "posts",
				Usage:  "List ingested social posts",
				Action: postsCommand,
			},
			{
				Name:   "purge",
				Usage:  "Delete every vector in a namespace",
				Action: purgeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "documents",
						Usage: "Purge the document namespace instead of chat",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env if present and configures logging before any
// command runs.
func setup(c *cli.Context) error {
	_ = godotenv.Load()

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

// newKnowledgeBase assembles the provider, index, and knowledge base
// from the global flags.
func newKnowledgeBase(c *cli.Context) (*answerit.KnowledgeBase, error) {
	aiConfig := ai.NewConfig(ai.WithAPIKey(c.String("openai-key")))

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	index, err := pinecone.New(pinecone.Config{
		APIKey: c.String("pinecone-key"),
		Host:   c.String("pinecone-host"),
	})
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}

	return answerit.New(provider, index)
}

func serveCommand(c *cli.Context) error {
	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	srv, err := server.New(kb.Answerer(), kb.DocumentNamespace())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", c.Int("port"))
	return srv.ListenAndServe(ctx, addr)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	db, err := supabase.OpenDatabase(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	messages, err := supabase.NewMessageStore(db)
	if err != nil {
		return err
	}

	written, err := kb.IngestMessages(ctx, messages, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("message ingestion failed after %d records: %w", written, err)
	}
	fmt.Fprintf(os.Stderr, "Ingested %d messages\n", written)

	if c.Bool("skip-files") {
		return nil
	}

	files, err := supabase.NewFileStore(
		c.String("supabase-url"),
		c.String("supabase-key"),
		c.String("bucket"),
		supabase.WithFileDatabase(db),
	)
	if err != nil {
		return err
	}

	written, err = kb.IngestFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("file ingestion failed after %d records: %w", written, err)
	}
	fmt.Fprintf(os.Stderr, "Ingested %d files\n", written)

	return nil
}

func uploadDocsCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("directory argument is required")
	}

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	written, err := kb.UploadDocuments(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("document upload failed after %d chunks: %w", written, err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d chunks\n", written)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question argument is required")
	}

	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()
	ask := kb.Ask
	if c.Bool("chat") {
		ask = kb.AskChat
	}

	answer, err := ask(ctx, question, c.Int("top-k"))
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println()
		for _, src := range answer.Sources {
			fmt.Printf("  [%s]\n", src.SourceID)
		}
	}

	return nil
}

func postsCommand(c *cli.Context) error {
	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	posts, err := kb.SocialPosts(context.Background())
	if err != nil {
		return err
	}

	for _, post := range posts {
		fmt.Printf("%s\t%s\n", post.ID, post.Metadata.ReferenceURL)
	}
	fmt.Fprintf(os.Stderr, "%d posts\n", len(posts))

	return nil
}

func purgeCommand(c *cli.Context) error {
	kb, err := newKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()
	if c.Bool("documents") {
		if err := kb.PurgeDocuments(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Purged document namespace")
		return nil
	}

	if err := kb.PurgeChat(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Purged chat namespace")

	return nil
}
