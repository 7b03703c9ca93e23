package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asadikov/tweetsift/internal/config"
	"github.com/asadikov/tweetsift/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config and archive health",
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(false, "config directory %s (run 'tweetsift init')", configDir)
		ok = false
	} else {
		printCheck(true, "config directory %s", configDir)
	}

	// Config file
	cfg, err := config.Load(configDir)
	if err != nil {
		printCheck(false, "config.yaml: %v", err)
		ok = false
	} else {
		printCheck(true, "config.yaml (%d rss feeds, format %s)",
			len(cfg.Sources.RSS.Feeds), cfg.Query.Format)
	}

	// Database
	if cfg != nil {
		db, err := store.Open(cfg.Storage.Path)
		if err != nil {
			printCheck(false, "database: %v", err)
			ok = false
		} else {
			defer func() { _ = db.Close() }()
			count, err := db.CountTweets(cmd.Context())
			if err != nil {
				printCheck(false, "database: %v", err)
				ok = false
			} else {
				printCheck(true, "database %s (%d tweets)", cfg.Storage.Path, count)
			}
		}
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

func printCheck(ok bool, format string, args ...any) {
	mark := "✗"
	if ok {
		mark = "✓"
	}
	fmt.Printf("  %s %s\n", mark, fmt.Sprintf(format, args...))
}
