package output

import (
	"io"

	"github.com/asadikov/tweetsift/internal/tweet"
)

// Result is the full input for a result formatter.
type Result struct {
	Matches []tweet.Post // matching tweets, in archive order
	Total   int          // archive size before filtering
	Query   string       // human-readable description of the applied filters
}

// Formatter writes a formatted query result to w.
type Formatter interface {
	Format(w io.Writer, res Result) error
}
