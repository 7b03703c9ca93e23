// Package filter provides pure queries over in-memory collections of
// posts. Every function preserves the relative order of its input,
// never mutates it, and allocates only its result. Results are never
// nil, so the functions compose: the output of one is a valid input
// for the next.
package filter

import (
	"errors"
	"strings"

	"github.com/asadikov/tweetsift/internal/tweet"
)

// WrittenBy returns the posts whose author is exactly equal to
// username. No case folding, no trimming. A nil posts slice is a
// caller bug and returns an error; an empty one returns empty.
func WrittenBy(posts []tweet.Post, username string) ([]tweet.Post, error) {
	if posts == nil {
		return nil, errors.New("posts collection is required")
	}

	matched := []tweet.Post{}
	for _, p := range posts {
		if p.Author == username {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// InTimespan returns the posts whose PostedAt falls within ts. Both
// bounds are inclusive. A span with Start after End matches nothing;
// it is not validated here.
func InTimespan(posts []tweet.Post, ts tweet.Timespan) ([]tweet.Post, error) {
	if posts == nil {
		return nil, errors.New("posts collection is required")
	}

	matched := []tweet.Post{}
	for _, p := range posts {
		if ts.Contains(p.PostedAt) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Containing returns the posts whose body, split into whitespace
// delimited tokens, contains at least one token exactly equal to one
// of the target words. Matching is case-sensitive and punctuation is
// not stripped: the token "word." does not match the word "word".
// A post matching several words still appears once. An empty word
// list matches nothing.
func Containing(posts []tweet.Post, words []string) ([]tweet.Post, error) {
	if posts == nil {
		return nil, errors.New("posts collection is required")
	}
	if words == nil {
		return nil, errors.New("words collection is required")
	}
	if len(words) == 0 {
		return []tweet.Post{}, nil
	}

	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	matched := []tweet.Post{}
	for _, p := range posts {
		for _, token := range strings.Fields(p.Text) {
			if _, ok := wordSet[token]; ok {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}
