package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger carries pipeline diagnostics to stderr so that query results
// on stdout stay clean for piping.
var logger zerolog.Logger

func init() {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger = zerolog.New(w).With().Timestamp().Logger()
}
