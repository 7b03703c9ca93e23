// Package tweet defines the immutable values the rest of tweetsift
// operates on: a Post and a closed Timespan.
package tweet

import "time"

// Post is a single short timestamped message. Posts are plain values:
// nothing in tweetsift mutates one after construction. IDs are opaque
// beyond equality and are supplied by whoever created the post.
type Post struct {
	ID       int64     // unique identifier
	Author   string    // case-sensitive author name
	Text     string    // message body
	PostedAt time.Time // publication instant
}

// Timespan is a closed time interval, inclusive on both ends.
// Start <= End is the caller's responsibility; a reversed span is not
// an error, it simply contains no instant.
type Timespan struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the span. Instants exactly
// equal to Start or End are inside.
func (ts Timespan) Contains(t time.Time) bool {
	return !t.Before(ts.Start) && !t.After(ts.End)
}
