package output

import (
	"encoding/json"
	"io"
)

type jsonResult struct {
	Meta   jsonMeta    `json:"meta"`
	Tweets []jsonTweet `json:"tweets"`
}

type jsonMeta struct {
	Total   int    `json:"total"`
	Matched int    `json:"matched"`
	Query   string `json:"query"`
}

type jsonTweet struct {
	ID       int64  `json:"id"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	PostedAt string `json:"posted_at"`
}

// JSONFormatter formats query results as JSON.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the result as indented JSON to w.
func (f *JSONFormatter) Format(w io.Writer, res Result) error {
	out := jsonResult{
		Meta: jsonMeta{
			Total:   res.Total,
			Matched: len(res.Matches),
			Query:   res.Query,
		},
		Tweets: make([]jsonTweet, 0, len(res.Matches)),
	}

	for _, p := range res.Matches {
		out.Tweets = append(out.Tweets, jsonTweet{
			ID:       p.ID,
			Author:   p.Author,
			Text:     p.Text,
			PostedAt: p.PostedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
