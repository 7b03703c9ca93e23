package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asadikov/tweetsift/internal/config"
	"github.com/asadikov/tweetsift/internal/filter"
	"github.com/asadikov/tweetsift/internal/output"
	"github.com/asadikov/tweetsift/internal/store"
	"github.com/asadikov/tweetsift/internal/tweet"
)

var (
	queryAuthor string
	queryFrom   string
	queryTo     string
	queryWords  []string
	queryFormat string
	noColor     bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter the archive by author, time window, and words",
	Long: `Loads the archive and pipes it through the selected filters in order:
author, then time window, then contained words. All matching is exact
and case-sensitive; word matching is against whole whitespace-delimited
tokens of the tweet body.`,
	RunE: queryAction,
}

func init() {
	queryCmd.Flags().StringVar(&queryAuthor, "author", "", "exact author name")
	queryCmd.Flags().StringVar(&queryFrom, "from", "", "start of time window, inclusive (RFC3339)")
	queryCmd.Flags().StringVar(&queryTo, "to", "", "end of time window, inclusive (RFC3339)")
	queryCmd.Flags().StringArrayVar(&queryWords, "word", nil, "word to search for (repeatable)")
	queryCmd.Flags().StringVar(&queryFormat, "format", "", "output format: terminal, json, markdown")
	queryCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	rootCmd.AddCommand(queryCmd)
}

// criteria holds the parsed query flags.
type criteria struct {
	author string
	span   *tweet.Timespan
	words  []string
}

func queryAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := parseCriteria(queryAuthor, queryFrom, queryTo, queryWords)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()

	posts, err := db.ListTweets(ctx)
	if err != nil {
		return fmt.Errorf("list tweets: %w", err)
	}
	total := len(posts)
	if posts == nil {
		posts = []tweet.Post{}
	}

	matches, err := applyFilters(posts, c)
	if err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}

	format := cfg.Query.Format
	if queryFormat != "" {
		format = queryFormat
	}

	loc, err := time.LoadLocation(cfg.Query.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	var formatter output.Formatter
	switch format {
	case "terminal", "":
		formatter = output.NewTerminal(!noColor, loc)
	case "json":
		formatter = output.NewJSON()
	case "markdown":
		formatter = output.NewMarkdown()
	default:
		return fmt.Errorf("unknown format %q (want terminal, json, or markdown)", format)
	}

	res := output.Result{
		Matches: matches,
		Total:   total,
		Query:   describeCriteria(c),
	}
	return formatter.Format(os.Stdout, res)
}

// parseCriteria validates the query flags. An omitted --from means the
// beginning of time; an omitted --to means now.
func parseCriteria(author, from, to string, words []string) (criteria, error) {
	c := criteria{author: author, words: words}

	if from == "" && to == "" {
		return c, nil
	}

	span := tweet.Timespan{End: time.Now()}
	if from != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return criteria{}, fmt.Errorf("parse --from: %w", err)
		}
		span.Start = start
	}
	if to != "" {
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return criteria{}, fmt.Errorf("parse --to: %w", err)
		}
		span.End = end
	}
	if span.Start.After(span.End) {
		return criteria{}, fmt.Errorf("--from %s is after --to %s", from, to)
	}

	c.span = &span
	return c, nil
}

// applyFilters pipes the archive through the selected filters in
// sequence. Filters not selected are skipped.
func applyFilters(posts []tweet.Post, c criteria) ([]tweet.Post, error) {
	var err error

	if c.author != "" {
		posts, err = filter.WrittenBy(posts, c.author)
		if err != nil {
			return nil, err
		}
	}

	if c.span != nil {
		posts, err = filter.InTimespan(posts, *c.span)
		if err != nil {
			return nil, err
		}
	}

	if len(c.words) > 0 {
		posts, err = filter.Containing(posts, c.words)
		if err != nil {
			return nil, err
		}
	}

	return posts, nil
}

func describeCriteria(c criteria) string {
	var parts []string
	if c.author != "" {
		parts = append(parts, fmt.Sprintf("author=%q", c.author))
	}
	if c.span != nil {
		parts = append(parts, fmt.Sprintf("between [%s, %s]",
			c.span.Start.UTC().Format(time.RFC3339),
			c.span.End.UTC().Format(time.RFC3339)))
	}
	if len(c.words) > 0 {
		quoted := make([]string, len(c.words))
		for i, w := range c.words {
			quoted[i] = fmt.Sprintf("%q", w)
		}
		parts = append(parts, "containing "+strings.Join(quoted, ", "))
	}
	if len(parts) == 0 {
		return "the whole archive"
	}
	return strings.Join(parts, ", ")
}
