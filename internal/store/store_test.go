package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asadikov/tweetsift/internal/tweet"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tweetsift.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func recordTestImport(t *testing.T, st *Store, id string) {
	t.Helper()
	err := st.RecordImport(context.Background(), Import{
		ID:         id,
		Origin:     "json:test.json",
		TweetCount: 1,
		ImportedAt: time.Date(2016, 2, 17, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record import: %v", err)
	}
}

func TestOpenAndMigrate(t *testing.T) {
	st, path := openTestStore(t)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	var version string
	if err := st.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != "1" {
		t.Fatalf("unexpected schema version: %s", version)
	}
}

func TestInsertTweetUpsert(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	recordTestImport(t, st, "batch-1")

	postedAt := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)

	err := st.InsertTweet(ctx, tweet.Post{
		ID:       1,
		Author:   "alyssa",
		Text:     "is it reasonable to talk about rivest so much?",
		PostedAt: postedAt,
	}, "batch-1")
	if err != nil {
		t.Fatalf("insert tweet: %v", err)
	}

	// Same id again updates in place
	err = st.InsertTweet(ctx, tweet.Post{
		ID:       1,
		Author:   "alyssa",
		Text:     "edited text",
		PostedAt: postedAt,
	}, "batch-1")
	if err != nil {
		t.Fatalf("upsert tweet: %v", err)
	}

	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM tweets").Scan(&count); err != nil {
		t.Fatalf("count tweets: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 tweet, got %d", count)
	}

	var text string
	if err := st.db.QueryRow("SELECT text FROM tweets WHERE id = 1").Scan(&text); err != nil {
		t.Fatalf("fetch updated tweet: %v", err)
	}
	if text != "edited text" {
		t.Fatalf("expected updated text, got %q", text)
	}
}

func TestInsertTweet_Validation(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	postedAt := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)

	if err := st.InsertTweet(ctx, tweet.Post{Author: "a", PostedAt: postedAt}, ""); err == nil {
		t.Error("expected error for missing id")
	}
	if err := st.InsertTweet(ctx, tweet.Post{ID: 1, PostedAt: postedAt}, ""); err == nil {
		t.Error("expected error for missing author")
	}
	if err := st.InsertTweet(ctx, tweet.Post{ID: 1, Author: "a"}, ""); err == nil {
		t.Error("expected error for missing posted_at")
	}
}

func TestListTweets_ArchiveOrder(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	recordTestImport(t, st, "batch-1")

	base := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)

	// Insert out of chronological order
	inputs := []tweet.Post{
		{ID: 3, Author: "c", Text: "third", PostedAt: base.Add(2 * time.Hour)},
		{ID: 1, Author: "a", Text: "first", PostedAt: base},
		{ID: 2, Author: "b", Text: "second", PostedAt: base.Add(time.Hour)},
	}
	for _, p := range inputs {
		if err := st.InsertTweet(ctx, p, "batch-1"); err != nil {
			t.Fatalf("insert tweet %d: %v", p.ID, err)
		}
	}

	posts, err := st.ListTweets(ctx)
	if err != nil {
		t.Fatalf("list tweets: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d tweets, want 3", len(posts))
	}
	for i, wantID := range []int64{1, 2, 3} {
		if posts[i].ID != wantID {
			t.Errorf("posts[%d].ID = %d, want %d", i, posts[i].ID, wantID)
		}
	}
	if !posts[0].PostedAt.Equal(base) {
		t.Errorf("posted_at round trip: got %v, want %v", posts[0].PostedAt, base)
	}
}

func TestListTweets_SameInstantOrderedByID(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	for _, id := range []int64{20, 5, 11} {
		if err := st.InsertTweet(ctx, tweet.Post{ID: id, Author: "a", Text: "x", PostedAt: at}, ""); err != nil {
			t.Fatalf("insert tweet %d: %v", id, err)
		}
	}

	posts, err := st.ListTweets(ctx)
	if err != nil {
		t.Fatalf("list tweets: %v", err)
	}
	for i, wantID := range []int64{5, 11, 20} {
		if posts[i].ID != wantID {
			t.Errorf("posts[%d].ID = %d, want %d", i, posts[i].ID, wantID)
		}
	}
}

func TestCountTweets(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	count, err := st.CountTweets(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}

	at := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	if err := st.InsertTweet(ctx, tweet.Post{ID: 1, Author: "a", Text: "x", PostedAt: at}, ""); err != nil {
		t.Fatalf("insert: %v", err)
	}

	count, err = st.CountTweets(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestRecordImport_Validation(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := st.RecordImport(ctx, Import{Origin: "rss", ImportedAt: now}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := st.RecordImport(ctx, Import{ID: "x", ImportedAt: now}); err == nil {
		t.Error("expected error for missing origin")
	}
	if err := st.RecordImport(ctx, Import{ID: "x", Origin: "rss"}); err == nil {
		t.Error("expected error for missing imported_at")
	}
}

func TestGetAuthorStats(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	inputs := []tweet.Post{
		{ID: 1, Author: "alyssa", Text: "one", PostedAt: base},
		{ID: 2, Author: "bbitdiddle", Text: "two", PostedAt: base.Add(time.Hour)},
		{ID: 3, Author: "alyssa", Text: "three", PostedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range inputs {
		if err := st.InsertTweet(ctx, p, ""); err != nil {
			t.Fatalf("insert tweet %d: %v", p.ID, err)
		}
	}

	stats, err := st.GetAuthorStats(ctx)
	if err != nil {
		t.Fatalf("get author stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d authors, want 2", len(stats))
	}

	// Ordered by author
	if stats[0].Author != "alyssa" || stats[1].Author != "bbitdiddle" {
		t.Fatalf("authors = %q, %q", stats[0].Author, stats[1].Author)
	}
	if stats[0].Total != 2 {
		t.Errorf("alyssa total = %d, want 2", stats[0].Total)
	}
	if !stats[0].FirstSeen.Equal(base) {
		t.Errorf("alyssa first_seen = %v, want %v", stats[0].FirstSeen, base)
	}
	if !stats[0].LastSeen.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("alyssa last_seen = %v, want %v", stats[0].LastSeen, base.Add(2*time.Hour))
	}
}

func TestPruneOld(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -60)
	recent := now.Add(-1 * time.Hour)

	if err := st.InsertTweet(ctx, tweet.Post{ID: 1, Author: "a", Text: "old", PostedAt: old}, ""); err != nil {
		t.Fatalf("insert old: %v", err)
	}
	if err := st.InsertTweet(ctx, tweet.Post{ID: 2, Author: "a", Text: "recent", PostedAt: recent}, ""); err != nil {
		t.Fatalf("insert recent: %v", err)
	}

	pruned, err := st.PruneOld(ctx, 30)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	posts, err := st.ListTweets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != 2 {
		t.Errorf("remaining = %v, want only id 2", posts)
	}
}

func TestPruneOld_ZeroDaysKeepsEverything(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	old := time.Now().AddDate(-1, 0, 0)
	if err := st.InsertTweet(ctx, tweet.Post{ID: 1, Author: "a", Text: "ancient", PostedAt: old}, ""); err != nil {
		t.Fatalf("insert: %v", err)
	}

	pruned, err := st.PruneOld(ctx, 0)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0", pruned)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
