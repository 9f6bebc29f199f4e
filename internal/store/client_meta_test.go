package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func TestMetaStore_LoadFreshDevice(t *testing.T) {
	db := openTestClientDB(t, testQueuePath(t))
	meta := NewMetaStore(db, logger.Nop())

	got, err := meta.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncMeta{}, got)
}

func TestMetaStore_SaveAndReload(t *testing.T) {
	path := testQueuePath(t)
	ctx := context.Background()

	db := openTestClientDB(t, path)
	meta := NewMetaStore(db, logger.Nop())

	want := models.SyncMeta{
		IsRegistered:      true,
		UserID:            42,
		AuthToken:         "token-abc",
		LastPullTimestamp: 1_700_000_000_000,
	}
	require.NoError(t, meta.Save(ctx, want))

	// a second save overwrites the single row
	want.LastPullTimestamp = 1_700_000_100_000
	require.NoError(t, meta.Save(ctx, want))
	require.NoError(t, db.Close())

	reopened := openTestClientDB(t, path)
	meta = NewMetaStore(reopened, logger.Nop())

	got, err := meta.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
