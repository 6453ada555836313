package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndLastRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, found, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	first := Run{
		ID:           "run-1",
		StartedAt:    time.Unix(1000, 0),
		FinishedAt:   time.Unix(1060, 0),
		ModulesTotal: 10,
		PagesWritten: 8,
	}
	require.NoError(t, store.RecordRun(ctx, first))

	second := Run{
		ID:             "run-2",
		StartedAt:      time.Unix(2000, 0),
		FinishedAt:     time.Unix(2030, 0),
		Mode:           "incremental",
		Status:         "warning",
		ModulesTotal:   10,
		PagesWritten:   1,
		PagesUnchanged: 9,
		Failures:       2,
	}
	require.NoError(t, store.RecordRun(ctx, second))

	last, found, err := store.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "run-2", last.ID)
	assert.Equal(t, "incremental", last.Mode)
	assert.Equal(t, "warning", last.Status)
	assert.Equal(t, 2, last.Failures)
	assert.Equal(t, time.Unix(2000, 0), last.StartedAt)
}

func TestUpsertPage(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := PageRecord{
		Module:      "camel.agents",
		Fingerprint: "abc",
		Converter:   "native",
		RunID:       "run-1",
		UpdatedAt:   time.Unix(1000, 0),
	}
	require.NoError(t, store.UpsertPage(ctx, rec))

	got, found, err := store.Page(ctx, "camel.agents")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)

	rec.Fingerprint = "def"
	rec.Converter = "pandoc"
	rec.RunID = "run-2"
	require.NoError(t, store.UpsertPage(ctx, rec))

	got, found, err = store.Page(ctx, "camel.agents")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "def", got.Fingerprint)
	assert.Equal(t, "pandoc", got.Converter)

	_, found, err = store.Page(ctx, "camel.unknown")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPagesAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"camel.types", "camel.agents"} {
		require.NoError(t, store.UpsertPage(ctx, PageRecord{
			Module: name, Fingerprint: "fp", Converter: "native", RunID: "r", UpdatedAt: time.Unix(1, 0),
		}))
	}

	records, err := store.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "camel.agents", records[0].Module)
	assert.Equal(t, "camel.types", records[1].Module)

	require.NoError(t, store.DeletePage(ctx, "camel.agents"))
	records, err = store.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "camel.types", records[0].Module)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
