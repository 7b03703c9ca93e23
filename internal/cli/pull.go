package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asadikov/tweetsift/internal/config"
	"github.com/asadikov/tweetsift/internal/source"
	"github.com/asadikov/tweetsift/internal/store"
)

var pullSince string

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch tweets from configured RSS feeds",
	RunE:  pullAction,
}

func init() {
	pullCmd.Flags().StringVar(&pullSince, "since", "", "time window (e.g. 7d, 48h; default 30d)")
	rootCmd.AddCommand(pullCmd)
}

func pullAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Sources.RSS.Feeds) == 0 {
		return fmt.Errorf("no rss feeds configured (add sources.rss.feeds to config.yaml)")
	}

	sinceDur := config.DefaultPullSince
	if pullSince != "" {
		sinceDur, err = parseDuration(pullSince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
	}
	since := time.Now().Add(-sinceDur)

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	rs, err := source.NewRSS(cfg.Sources.RSS.Feeds, func(feedURL string, err error) {
		logger.Warn().Str("feed", feedURL).Err(err).Msg("feed fetch failed")
	})
	if err != nil {
		return fmt.Errorf("create rss source: %w", err)
	}

	tweets, err := rs.Fetch(since)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rs.Name(), err)
	}

	ctx := cmd.Context()

	if len(tweets) > 0 {
		batch := store.Import{
			ID:         uuid.NewString(),
			Origin:     rs.Name(),
			TweetCount: len(tweets),
			ImportedAt: time.Now(),
		}
		if err := db.RecordImport(ctx, batch); err != nil {
			return fmt.Errorf("record import: %w", err)
		}

		for _, t := range tweets {
			if err := db.InsertTweet(ctx, t, batch.ID); err != nil {
				return fmt.Errorf("insert tweet: %w", err)
			}
		}
	}

	pruned, err := db.PruneOld(ctx, cfg.Storage.RetainDays)
	if err != nil {
		return fmt.Errorf("prune old: %w", err)
	}

	fmt.Printf("Pulled %d tweets from %d feeds", len(tweets), len(cfg.Sources.RSS.Feeds))
	if pruned > 0 {
		fmt.Printf(" (%d old tweets pruned)", pruned)
	}
	fmt.Println()

	return nil
}

// parseDuration handles both Go durations and "Nd" day notation.
func parseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
