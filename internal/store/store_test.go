package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Record{
		URL:          "https://example.com",
		OverallScore: 87,
		Improvements: 3,
		DurationMS:   420,
		Report:       json.RawMessage(`{"overall_score":87}`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, got.ID)
	require.Equal(t, "https://example.com", got.URL)
	require.Equal(t, 87, got.OverallScore)
	require.Equal(t, 3, got.Improvements)
	require.Equal(t, int64(420), got.DurationMS)
	require.JSONEq(t, `{"overall_score":87}`, string(got.Report))
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, Record{
			URL:       "https://example.com",
			Report:    json.RawMessage(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	records, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.True(t, records[0].CreatedAt.After(records[1].CreatedAt))

	// List omits the payload.
	require.Empty(t, records[0].Report)
}

func TestListEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	records, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, records)
}
