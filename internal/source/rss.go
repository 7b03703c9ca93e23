package source

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/asadikov/tweetsift/internal/tweet"
)

const (
	rssSourceName   = "rss"
	rssFetchTimeout = 30 * time.Second
	rssUserAgent    = "Mozilla/5.0 (compatible; tweetsift/1.0)"
	rssMaxWorkers   = 8
	rssMaxRetries   = 3
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{3,}`)
)

// RSSSource fetches tweets from RSS/Atom feeds.
type RSSSource struct {
	feeds []string

	// warn receives per-feed fetch failures; fetching continues past them.
	warn func(feedURL string, err error)
}

// NewRSS creates an RSS/Atom source. At least one feed URL is required.
// warn may be nil.
func NewRSS(feeds []string, warn func(feedURL string, err error)) (*RSSSource, error) {
	if len(feeds) == 0 {
		return nil, errors.New("rss: at least one feed URL is required")
	}
	if warn == nil {
		warn = func(string, error) {}
	}
	return &RSSSource{feeds: feeds, warn: warn}, nil
}

func (rs *RSSSource) Name() string {
	return rssSourceName
}

// Fetch pulls all configured feeds with a bounded worker pool. A feed
// that keeps failing is reported through warn and skipped.
func (rs *RSSSource) Fetch(since time.Time) ([]tweet.Post, error) {
	type result struct {
		tweets []tweet.Post
		err    error
		url    string
	}

	jobs := make(chan string, len(rs.feeds))
	results := make(chan result, len(rs.feeds))

	workers := rssMaxWorkers
	if len(rs.feeds) < workers {
		workers = len(rs.feeds)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feedURL := range jobs {
				items, err := fetchWithRetry(feedURL, since)
				results <- result{tweets: items, err: err, url: feedURL}
			}
		}()
	}

	for _, feedURL := range rs.feeds {
		jobs <- feedURL
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var tweets []tweet.Post
	for r := range results {
		if r.err != nil {
			rs.warn(r.url, r.err)
			continue
		}
		tweets = append(tweets, r.tweets...)
	}

	return tweets, nil
}

// rssTransport injects a User-Agent header into every request.
type rssTransport struct {
	base http.RoundTripper
}

func (t *rssTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", rssUserAgent)
	return t.base.RoundTrip(req)
}

// rssSleepFunc is the function used for retry backoff delays.
// It defaults to time.Sleep but can be overridden in tests.
var rssSleepFunc = time.Sleep

func fetchWithRetry(feedURL string, since time.Time) ([]tweet.Post, error) {
	var lastErr error
	for attempt := 0; attempt < rssMaxRetries; attempt++ {
		tweets, err := fetchFeed(feedURL, since)
		if err == nil {
			return tweets, nil
		}
		if !isRetryableError(err) {
			return nil, err
		}
		lastErr = err
		if attempt < rssMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second // 1s, 2s, 4s
			rssSleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "timeout") || strings.Contains(s, "Timeout") {
		return true
	}
	if strings.Contains(s, "connection refused") || strings.Contains(s, "no such host") {
		return true
	}
	// Server-side HTTP errors are worth retrying
	if strings.Contains(s, "500") ||
		strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "504") {
		return true
	}
	return false
}

func fetchFeed(feedURL string, since time.Time) ([]tweet.Post, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rssFetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{
		Timeout:   rssFetchTimeout,
		Transport: &rssTransport{base: http.DefaultTransport},
	}
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}

	return tweetsFromFeed(feed, feedURL, since), nil
}

func tweetsFromFeed(feed *gofeed.Feed, feedURL string, since time.Time) []tweet.Post {
	var tweets []tweet.Post
	for _, item := range feed.Items {
		postedAt := itemPublishedTime(item)
		if postedAt.IsZero() || postedAt.Before(since) {
			continue
		}

		tweets = append(tweets, tweet.Post{
			ID:       tweetID(itemKey(item, feedURL)),
			Author:   itemAuthor(item, feed),
			Text:     itemText(item),
			PostedAt: postedAt,
		})
	}
	return tweets
}

// tweetID derives a stable positive int64 from an item key so that
// re-pulling a feed upserts instead of duplicating.
func tweetID(key string) int64 {
	sum := sha256.Sum256([]byte(key))
	id := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if id == 0 {
		id = 1
	}
	return id
}

func itemKey(item *gofeed.Item, feedURL string) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link != "" {
		return item.Link
	}
	return feedURL + "#" + item.Title
}

func itemAuthor(item *gofeed.Item, feed *gofeed.Feed) string {
	if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	if feed.Title != "" {
		return feed.Title
	}
	return rssSourceName
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemText(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}

	text := stripHTML(raw)

	if item.Title != "" && !strings.Contains(text, item.Title) {
		text = item.Title + "\n\n" + text
	}

	return strings.TrimSpace(text)
}

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
