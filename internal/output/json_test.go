package output

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormat(t *testing.T) {
	var buf strings.Builder
	f := NewJSON()

	if err := f.Format(&buf, sampleResult()); err != nil {
		t.Fatalf("format: %v", err)
	}

	var out struct {
		Meta struct {
			Total   int    `json:"total"`
			Matched int    `json:"matched"`
			Query   string `json:"query"`
		} `json:"meta"`
		Tweets []struct {
			ID       int64  `json:"id"`
			Author   string `json:"author"`
			Text     string `json:"text"`
			PostedAt string `json:"posted_at"`
		} `json:"tweets"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.Meta.Total != 5 || out.Meta.Matched != 2 {
		t.Errorf("meta = %+v", out.Meta)
	}
	if len(out.Tweets) != 2 {
		t.Fatalf("got %d tweets, want 2", len(out.Tweets))
	}
	if out.Tweets[0].ID != 1 || out.Tweets[0].Author != "alyssa" {
		t.Errorf("tweets[0] = %+v", out.Tweets[0])
	}
	if out.Tweets[0].PostedAt != "2016-02-17T10:00:00Z" {
		t.Errorf("posted_at = %q", out.Tweets[0].PostedAt)
	}
}

func TestJSONFormat_EmptyMatches(t *testing.T) {
	var buf strings.Builder
	f := NewJSON()

	res := sampleResult()
	res.Matches = nil
	if err := f.Format(&buf, res); err != nil {
		t.Fatalf("format: %v", err)
	}

	// Empty matches serialize as [], not null
	if !strings.Contains(buf.String(), `"tweets": []`) {
		t.Errorf("want empty array, got:\n%s", buf.String())
	}
}
