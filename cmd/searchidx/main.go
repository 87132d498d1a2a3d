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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	searchidx "github.com/poiesic/searchidx"
	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/search"
)

func main() {
	app := &cli.App{
		Name:  "searchidx",
		Usage: "Embedded full-text search index over personal records",
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
				Name:   "seed",
				Usage:  "Rebuild the index from a JSON file of items",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of items to index",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a ranked AND query against the index",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "source",
						Usage: "Restrict results to these source types (repeatable)",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of results",
						Value: search.DefaultMaxResults,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print index statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Empty the index and delete the persisted snapshot",
				Action: resetCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seedItem is the JSON shape accepted by the seed command.
type seedItem struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	TimestampMs int64             `json:"timestampMs"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type seedLoader struct {
	items []core.IndexedItem
}

func (l *seedLoader) Load(context.Context) ([]core.IndexedItem, error) {
	return l.items, nil
}

func seedCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []seedItem
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	loader := &seedLoader{items: make([]core.IndexedItem, 0, len(records))}
	for _, record := range records {
		loader.items = append(loader.items, core.IndexedItem{
			ID:             record.ID,
			Source:         core.SourceType(record.Source),
			Title:          record.Title,
			SearchableText: record.Text,
			TimestampMs:    record.TimestampMs,
			Metadata:       record.Metadata,
		})
	}

	engine, err := searchidx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer engine.Close()

	if err := engine.Rebuild(context.Background(), loader); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}
	if err := engine.Flush(context.Background()); err != nil {
		return fmt.Errorf("failed to flush index: %w", err)
	}

	fmt.Printf("Indexed %d items\n", len(loader.items))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := searchidx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer engine.Close()

	opts := &search.Options{MaxResults: c.Int("max")}
	for _, source := range c.StringSlice("source") {
		opts.Sources = append(opts.Sources, core.SourceType(source))
	}

	results, err := engine.Search(context.Background(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, result := range results {
		when := result.Item.Time().Format(time.RFC3339)
		title := result.Item.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%2d. [%.1f] %-8s %s  %s  (%s)\n",
			i+1, result.Score, result.Item.Source, result.Item.ID, title, when)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := searchidx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer engine.Close()

	stats := engine.Statistics()
	fmt.Printf("Items:          %d\n", stats.TotalItems)
	fmt.Printf("Terms:          %d\n", stats.TotalTerms)
	fmt.Printf("Approx size:    %d KB\n", stats.ApproxSizeKB)
	fmt.Printf("Rejected terms: %d\n", stats.RejectedTerms)
	if !stats.LastBuiltAt.IsZero() {
		fmt.Printf("Last built:     %s\n", stats.LastBuiltAt.Format(time.RFC3339))
	}
	for source, count := range stats.PerSourceType {
		fmt.Printf("  %-10s %d\n", source, count)
	}
	return nil
}

func resetCommand(c *cli.Context) error {
	engine, err := searchidx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer engine.Close()

	if err := engine.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}

	fmt.Println("Index reset")
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
