package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagadeeshD3/portfolio/internal/mail"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "site.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordVisitAndStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordVisit(ctx, "aaaa", "curl", "/developer"))
	require.NoError(t, db.RecordVisit(ctx, "aaaa", "curl", "/chainsafe"))
	require.NoError(t, db.RecordVisit(ctx, "bbbb", "firefox", "/developer"))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 3, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/developer", Views: 2}, stats.TopPaths[0])
	assert.Len(t, stats.RecentVisitors, 3)
}

func TestCleanupVisitors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	db.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	require.NoError(t, db.RecordVisit(ctx, "old", "", "/"))
	db.now = func() time.Time { return now }
	require.NoError(t, db.RecordVisit(ctx, "new", "", "/"))

	removed, err := db.CleanupVisitors(ctx, VisitorRetention)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	visitors, err := db.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "new", visitors[0].HashedIP)
}

func TestContactArchive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	c := mail.Contact{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}

	id, err := db.SaveContact(ctx, c, true, "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	_, err = db.SaveContact(ctx, c, false, "smtp down")
	require.NoError(t, err)

	records, err := db.RecentContacts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var failed int
	for _, r := range records {
		assert.Equal(t, "Ada", r.Name)
		if !r.Delivered {
			failed++
			assert.Equal(t, "smtp down", r.Failure)
		}
	}
	assert.Equal(t, 1, failed)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 1, stats.FailedMessages)
}

func TestStartRetention(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := db.StartRetention(ctx, "not a spec")
	require.Error(t, err)

	c, err := db.StartRetention(ctx, "@daily")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
