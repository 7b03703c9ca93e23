package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/asadikov/tweetsift/internal/tweet"
)

const maxTextWidth = 80

// TerminalFormatter formats query results for terminal output.
type TerminalFormatter struct {
	color bool
	loc   *time.Location
}

// NewTerminal creates a terminal formatter. Set color=true for ANSI
// colors. A nil location falls back to UTC.
func NewTerminal(color bool, loc *time.Location) *TerminalFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &TerminalFormatter{color: color, loc: loc}
}

// Format writes one line per matching tweet, oldest first.
func (f *TerminalFormatter) Format(w io.Writer, res Result) error {
	header := fmt.Sprintf("tweetsift — %d of %d tweets match %s",
		len(res.Matches), res.Total, res.Query)
	fmt.Fprintln(w, f.bold(header))
	fmt.Fprintln(w)

	if len(res.Matches) == 0 {
		fmt.Fprintln(w, "No matching tweets.")
		return nil
	}

	for _, p := range res.Matches {
		f.writeTweet(w, p)
	}

	return nil
}

func (f *TerminalFormatter) writeTweet(w io.Writer, p tweet.Post) {
	fmt.Fprintf(w, "  %s %s  %s\n",
		f.dim(fmt.Sprintf("[%d]", p.ID)),
		f.bold("@"+p.Author),
		p.PostedAt.In(f.loc).Format("2006-01-02 15:04:05"),
	)
	fmt.Fprintf(w, "      %s\n", truncateText(p.Text, maxTextWidth))
}

// truncateText collapses the body to one line and cuts it at width runes.
func truncateText(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// ANSI helpers — no-op when color=false.

func (f *TerminalFormatter) bold(s string) string {
	if !f.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (f *TerminalFormatter) dim(s string) string {
	if !f.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
