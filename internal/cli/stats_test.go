package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/asadikov/tweetsift/internal/store"
)

func sampleAuthorStats() []store.AuthorStats {
	base := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	return []store.AuthorStats{
		{Author: "alyssa", Total: 2, FirstSeen: base, LastSeen: base.Add(2 * time.Hour)},
		{Author: "bbitdiddle", Total: 1, FirstSeen: base.Add(time.Hour), LastSeen: base.Add(time.Hour)},
	}
}

func TestPrintStats(t *testing.T) {
	var buf strings.Builder
	printStats(&buf, sampleAuthorStats())
	out := buf.String()

	if !strings.Contains(out, "3 tweets from 2 authors") {
		t.Errorf("missing header, got:\n%s", out)
	}
	if !strings.Contains(out, "alyssa") || !strings.Contains(out, "bbitdiddle") {
		t.Errorf("missing authors, got:\n%s", out)
	}
	if !strings.Contains(out, "2016-02-17 10:00:00") {
		t.Errorf("missing first_seen, got:\n%s", out)
	}
}

func TestPrintStatsJSON(t *testing.T) {
	var buf strings.Builder
	if err := printStatsJSON(&buf, sampleAuthorStats()); err != nil {
		t.Fatalf("print json: %v", err)
	}

	var out struct {
		Authors []struct {
			Author string `json:"author"`
			Total  int    `json:"total"`
		} `json:"authors"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Total != 3 {
		t.Errorf("total = %d, want 3", out.Total)
	}
	if len(out.Authors) != 2 || out.Authors[0].Author != "alyssa" {
		t.Errorf("authors = %+v", out.Authors)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"48h", 48 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"30m", 30 * time.Minute},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if err != nil {
			t.Errorf("parseDuration(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := parseDuration("soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
}
