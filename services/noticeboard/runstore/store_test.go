package runstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"noticeboard-backend/lib/testutil"
	"noticeboard-backend/services/noticeboard/runstore/db"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/noticeboard/runstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.Latest(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)

	base := time.Date(2025, 8, 12, 6, 0, 0, 0, time.UTC)
	runs := []Run{
		{StartedAt: base, FinishedAt: base.Add(time.Minute), Success: true, SectionsOK: 4, Attempts: 1},
		{StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Minute), Success: false, SectionsOK: 2, Attempts: 3, Error: "persist failed"},
		{StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2*time.Hour + time.Minute), Success: true, SectionsOK: 4, Attempts: 2},
	}
	for _, r := range runs {
		require.NoError(t, store.Insert(ctx, r))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.True(t, latest.Success)
	require.Equal(t, 2, latest.Attempts)
	require.Equal(t, base.Add(2*time.Hour).Unix(), latest.StartedAt.Unix())

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, base.Add(2*time.Hour).Unix(), recent[0].StartedAt.Unix())
	require.Equal(t, "persist failed", recent[1].Error)
	require.False(t, recent[1].Success)
}
