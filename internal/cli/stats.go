package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asadikov/tweetsift/internal/config"
	"github.com/asadikov/tweetsift/internal/store"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-author archive analytics",
	RunE:  statsAction,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "terminal", "output format: terminal, json")
	rootCmd.AddCommand(statsCmd)
}

func statsAction(cmd *cobra.Command, _ []string) error {
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

	stats, err := db.GetAuthorStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if len(stats) == 0 {
		if statsFormat == "json" {
			fmt.Fprintln(os.Stdout, `{"authors":[],"total":0}`)
			return nil
		}
		fmt.Fprintln(os.Stdout, "Archive is empty. Run 'tweetsift import' or 'tweetsift pull' first.")
		return nil
	}

	switch statsFormat {
	case "json":
		return printStatsJSON(os.Stdout, stats)
	case "terminal", "":
		printStats(os.Stdout, stats)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want terminal or json)", statsFormat)
	}
}

type jsonStatsOutput struct {
	Authors []jsonAuthorStats `json:"authors"`
	Total   int               `json:"total"`
}

type jsonAuthorStats struct {
	Author    string `json:"author"`
	Total     int    `json:"total"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
}

func printStatsJSON(w io.Writer, stats []store.AuthorStats) error {
	authors := make([]jsonAuthorStats, 0, len(stats))
	total := 0

	for _, as := range stats {
		authors = append(authors, jsonAuthorStats{
			Author:    as.Author,
			Total:     as.Total,
			FirstSeen: as.FirstSeen.UTC().Format(time.RFC3339),
			LastSeen:  as.LastSeen.UTC().Format(time.RFC3339),
		})
		total += as.Total
	}

	out := jsonStatsOutput{Authors: authors, Total: total}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printStats(w io.Writer, stats []store.AuthorStats) {
	total := 0
	for _, as := range stats {
		total += as.Total
	}

	fmt.Fprintf(w, "tweetsift stats — %d tweets from %d authors\n\n", total, len(stats))

	// Column width for author name
	maxAuthor := 6 // minimum "Author"
	for _, as := range stats {
		if len(as.Author) > maxAuthor {
			maxAuthor = len(as.Author)
		}
	}
	if maxAuthor > 40 {
		maxAuthor = 40
	}

	fmt.Fprintf(w, "  %-*s  %6s  %-20s  %-20s\n", maxAuthor, "Author", "Tweets", "First seen", "Last seen")
	for _, as := range stats {
		name := as.Author
		if len(name) > maxAuthor {
			name = name[:maxAuthor-1] + "…"
		}
		fmt.Fprintf(w, "  %-*s  %6d  %-20s  %-20s\n",
			maxAuthor, name, as.Total,
			as.FirstSeen.UTC().Format("2006-01-02 15:04:05"),
			as.LastSeen.UTC().Format("2006-01-02 15:04:05"),
		)
	}
}
