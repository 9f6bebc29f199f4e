package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func newTestLibrary(t *testing.T) (LibraryService, *store.ClientStorages) {
	t.Helper()

	storages := newTestClientStorages(t)
	return NewLibraryService(storages.Entities, storages.Queue, logger.Nop()), storages
}

func TestLibraryService_Create(t *testing.T) {
	library, storages := newTestLibrary(t)
	ctx := context.Background()

	localID, err := library.Create(ctx, models.TableBooks, models.Book{Title: "Faust", Language: "de"})
	require.NoError(t, err)
	require.NotEmpty(t, localID)

	// the stored payload carries the assigned localId
	raw, err := library.Get(ctx, models.TableBooks, localID)
	require.NoError(t, err)
	var book models.Book
	require.NoError(t, models.DecodePayload(raw, &book))
	assert.Equal(t, localID, book.LocalID)
	assert.Equal(t, "Faust", book.Title)

	// the matching create change is queued with the same payload
	entries, err := storages.Queue.PeekBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OperationCreate, entries[0].Change.Operation)
	assert.Equal(t, localID, entries[0].Change.LocalID)
	assert.JSONEq(t, string(raw), string(entries[0].Change.Data))
}

func TestLibraryService_PendingCount(t *testing.T) {
	library, _ := newTestLibrary(t)

	_, err := library.Create(context.Background(), models.TableVocabularyItems, models.VocabularyItem{
		SourceText: "Haus",
		TargetText: "house",
	})
	require.NoError(t, err)

	count, err := library.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLibraryService_UpdateUnknownEntity(t *testing.T) {
	library, _ := newTestLibrary(t)

	err := library.Update(context.Background(), models.TableBooks, "missing", models.Book{Title: "x", Language: "de"})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestLibraryService_UpdateQueuesWholePayload(t *testing.T) {
	library, storages := newTestLibrary(t)
	ctx := context.Background()

	localID, err := library.Create(ctx, models.TableBooks, models.Book{Title: "Faust", Language: "de"})
	require.NoError(t, err)

	require.NoError(t, library.Update(ctx, models.TableBooks, localID, models.Book{Title: "Faust II", Language: "de"}))

	entries, err := storages.Queue.PeekBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.OperationUpdate, entries[1].Change.Operation)

	var updated models.Book
	require.NoError(t, models.DecodePayload(entries[1].Change.Data, &updated))
	assert.Equal(t, localID, updated.LocalID)
	assert.Equal(t, "Faust II", updated.Title)
}

func TestLibraryService_DeleteQueuesTombstone(t *testing.T) {
	library, storages := newTestLibrary(t)
	ctx := context.Background()

	localID, err := library.Create(ctx, models.TableSections, models.Section{Title: "A1"})
	require.NoError(t, err)

	require.NoError(t, library.Delete(ctx, models.TableSections, localID))

	_, err = library.Get(ctx, models.TableSections, localID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	entries, err := storages.Queue.PeekBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.OperationDelete, entries[1].Change.Operation)
	assert.Nil(t, entries[1].Change.Data)
}

func TestLibraryService_ListReturnsLiveEntities(t *testing.T) {
	library, _ := newTestLibrary(t)
	ctx := context.Background()

	first, err := library.Create(ctx, models.TableVocabularyItems, models.VocabularyItem{SourceText: "Haus", TargetText: "house"})
	require.NoError(t, err)
	second, err := library.Create(ctx, models.TableVocabularyItems, models.VocabularyItem{SourceText: "Baum", TargetText: "tree"})
	require.NoError(t, err)
	require.NoError(t, library.Delete(ctx, models.TableVocabularyItems, second))

	items, err := library.List(ctx, models.TableVocabularyItems)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var item models.VocabularyItem
	require.NoError(t, models.DecodePayload(items[0], &item))
	assert.Equal(t, first, item.LocalID)
}
