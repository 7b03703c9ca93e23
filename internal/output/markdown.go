package output

import (
	"fmt"
	"io"
)

// MarkdownFormatter formats query results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the result as a Markdown list to w.
func (f *MarkdownFormatter) Format(w io.Writer, res Result) error {
	fmt.Fprintf(w, "# tweetsift results\n\n")
	fmt.Fprintf(w, "%d of %d tweets match %s\n\n", len(res.Matches), res.Total, res.Query)

	if len(res.Matches) == 0 {
		fmt.Fprintln(w, "No matching tweets.")
		return nil
	}

	for _, p := range res.Matches {
		fmt.Fprintf(w, "- **@%s** (%s, id %d) — %s\n",
			p.Author,
			p.PostedAt.UTC().Format("2006-01-02 15:04:05"),
			p.ID,
			truncateText(p.Text, maxTextWidth),
		)
	}

	return nil
}
