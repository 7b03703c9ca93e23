package source

import (
	"time"

	"github.com/asadikov/tweetsift/internal/tweet"
)

// Source fetches tweets from an external stream.
type Source interface {
	// Name returns the source identifier (e.g. "rss").
	Name() string

	// Fetch returns tweets published after the given time.
	Fetch(since time.Time) ([]tweet.Post, error)
}
