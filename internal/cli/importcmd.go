package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asadikov/tweetsift/internal/config"
	"github.com/asadikov/tweetsift/internal/store"
	"github.com/asadikov/tweetsift/internal/tweet"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <tweets.json>",
	Short: "Import tweets from a JSON export into the archive",
	Long: `Reads a JSON array of tweet records and inserts them into the archive
as one provenance batch. Each record needs id, author, text, and an
RFC3339 posted_at. Re-importing a tweet id updates it in place.`,
	Args: cobra.ExactArgs(1),
	RunE: importAction,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and validate without touching the archive")
	rootCmd.AddCommand(importCmd)
}

// tweetRecord is one entry of the JSON export format.
type tweetRecord struct {
	ID       int64  `json:"id"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	PostedAt string `json:"posted_at"`
}

func importAction(cmd *cobra.Command, args []string) error {
	exportPath := args[0]

	tweets, err := readExport(exportPath)
	if err != nil {
		return err
	}

	if len(tweets) == 0 {
		fmt.Println("No tweets found in export file.")
		return nil
	}

	if importDryRun {
		fmt.Printf("Would import %d tweets from %s:\n", len(tweets), exportPath)
		for _, t := range tweets {
			fmt.Printf("  + [%d] @%s %s\n", t.ID, t.Author, t.PostedAt.UTC().Format(time.RFC3339))
		}
		return nil
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()

	batch := store.Import{
		ID:         uuid.NewString(),
		Origin:     "json:" + filepath.Base(exportPath),
		TweetCount: len(tweets),
		ImportedAt: time.Now(),
	}
	if err := db.RecordImport(ctx, batch); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	for _, t := range tweets {
		if err := db.InsertTweet(ctx, t, batch.ID); err != nil {
			return fmt.Errorf("insert tweet %d: %w", t.ID, err)
		}
	}

	fmt.Printf("Imported %d tweets from %s (batch %s).\n", len(tweets), exportPath, batch.ID)
	return nil
}

// readExport parses and validates a JSON export file.
func readExport(path string) ([]tweet.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var records []tweetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	tweets := make([]tweet.Post, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for i, r := range records {
		if r.ID == 0 {
			return nil, fmt.Errorf("record %d: id is required", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = true
		if r.Author == "" {
			return nil, fmt.Errorf("record %d: author is required", i)
		}
		postedAt, err := time.Parse(time.RFC3339, r.PostedAt)
		if err != nil {
			return nil, fmt.Errorf("record %d: parse posted_at: %w", i, err)
		}
		tweets = append(tweets, tweet.Post{
			ID:       r.ID,
			Author:   r.Author,
			Text:     r.Text,
			PostedAt: postedAt,
		})
	}

	return tweets, nil
}
