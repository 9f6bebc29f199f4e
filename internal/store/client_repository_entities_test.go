package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func newTestLocalStore(t *testing.T) LocalStore {
	t.Helper()
	db := openTestClientDB(t, testQueuePath(t))
	return NewLocalStore(db, logger.Nop())
}

func TestLocalStore_UpsertAndGet(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"localId":"b1","title":"Faust","language":"de"}`)
	require.NoError(t, store.UpsertEntity(ctx, models.TableBooks, "b1", payload, 1_000))

	got, err := store.GetEntity(ctx, models.TableBooks, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))

	// whole-payload replacement on repeat upsert
	updated := json.RawMessage(`{"localId":"b1","title":"Faust II","language":"de"}`)
	require.NoError(t, store.UpsertEntity(ctx, models.TableBooks, "b1", updated, 2_000))

	got, err = store.GetEntity(ctx, models.TableBooks, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, string(updated), string(got))
}

func TestLocalStore_GetEntity_NotFound(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.GetEntity(context.Background(), models.TableBooks, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLocalStore_DeleteHidesEntity(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"localId":"v1","sourceText":"Haus"}`)
	require.NoError(t, store.UpsertEntity(ctx, models.TableVocabularyItems, "v1", payload, 1_000))
	require.NoError(t, store.DeleteEntity(ctx, models.TableVocabularyItems, "v1", 2_000))

	_, err := store.GetEntity(ctx, models.TableVocabularyItems, "v1")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	items, err := store.ListEntities(ctx, models.TableVocabularyItems)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLocalStore_DeleteUnknownEntity(t *testing.T) {
	store := newTestLocalStore(t)

	// tombstone for a row this device never stored
	err := store.DeleteEntity(context.Background(), models.TableSections, "never-seen", 1_000)
	assert.NoError(t, err)
}

func TestLocalStore_ApplyChanges_InOrder(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	changes := []models.SyncChange{
		// child arrives before its parent book; applied anyway
		{
			Table:     models.TableChapters,
			Operation: models.OperationCreate,
			LocalID:   "c1",
			Data:      json.RawMessage(`{"localId":"c1","bookLocalId":"b1","title":"Kapitel 1"}`),
			Timestamp: 1_000,
		},
		{
			Table:     models.TableBooks,
			Operation: models.OperationCreate,
			LocalID:   "b1",
			Data:      json.RawMessage(`{"localId":"b1","title":"Faust"}`),
			Timestamp: 2_000,
		},
		{
			Table:     models.TableBooks,
			Operation: models.OperationUpdate,
			LocalID:   "b1",
			Data:      json.RawMessage(`{"localId":"b1","title":"Faust I"}`),
			Timestamp: 3_000,
		},
		{
			Table:     models.TableChapters,
			Operation: models.OperationDelete,
			LocalID:   "c1",
			Timestamp: 4_000,
		},
	}

	require.NoError(t, store.ApplyChanges(ctx, changes))

	book, err := store.GetEntity(ctx, models.TableBooks, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"localId":"b1","title":"Faust I"}`, string(book))

	_, err = store.GetEntity(ctx, models.TableChapters, "c1")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLocalStore_ResetAll(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertEntity(ctx, models.TableBooks, "b1", json.RawMessage(`{"localId":"b1"}`), 1_000))
	require.NoError(t, store.UpsertEntity(ctx, models.TableSections, "s1", json.RawMessage(`{"localId":"s1"}`), 1_000))

	require.NoError(t, store.ResetAll(ctx))

	for _, table := range models.SyncTables {
		items, err := store.ListEntities(ctx, table)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}
