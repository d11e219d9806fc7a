package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{
		SourceLabel: "inline",
		SourceHash:  "abc123",
		NodeCount:   4,
		EdgeCount:   3,
		CycleCount:  1,
		OrphanCount: 2,
	}))
	require.NoError(t, s.Record(ctx, Entry{
		SourceLabel: "workspace:/tmp/proj",
		SourceHash:  "def456",
		NodeCount:   10,
	}))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "workspace:/tmp/proj", entries[0].SourceLabel)
	assert.Equal(t, "inline", entries[1].SourceLabel)
	assert.Equal(t, 4, entries[1].NodeCount)
	assert.Equal(t, 1, entries[1].CycleCount)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].CreatedAt, time.Minute)
}

func TestRecentLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Entry{SourceLabel: "inline", SourceHash: "h"}))
	}

	entries, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentEmpty(t *testing.T) {
	s := openTemp(t)

	entries, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
