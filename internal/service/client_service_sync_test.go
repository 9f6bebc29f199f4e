package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/mock"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func newTestClientStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	storages, err := store.NewClientStorages(
		context.Background(),
		config.ClientStorage{Path: filepath.Join(t.TempDir(), "client.db")},
		logger.Nop(),
	)
	require.NoError(t, err)
	return storages
}

func registerTestDevice(t *testing.T, storages *store.ClientStorages, lastPull int64) {
	t.Helper()

	require.NoError(t, storages.Meta.Save(context.Background(), models.SyncMeta{
		IsRegistered:      true,
		UserID:            7,
		AuthToken:         "token-abc",
		LastPullTimestamp: lastPull,
	}))
}

func enqueueTestChange(t *testing.T, storages *store.ClientStorages, table models.SyncTable, localID string) {
	t.Helper()

	_, err := storages.Queue.Enqueue(context.Background(), models.SyncChange{
		Table:     table,
		Operation: models.OperationCreate,
		LocalID:   localID,
		Data:      json.RawMessage(`{"localId":"` + localID + `"}`),
		Timestamp: 1,
	})
	require.NoError(t, err)
}

func TestClientSyncService_RunCycle_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	svc := NewClientSyncService(storages, mock.NewMockServerAdapter(ctrl), 100, logger.Nop())

	err := svc.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestClientSyncService_RunCycle_PushThenPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 100)
	enqueueTestChange(t, storages, models.TableBooks, "b1")
	enqueueTestChange(t, storages, models.TableChapters, "c1")

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	ctx := context.Background()

	pulled := models.SyncChange{
		Table:     models.TableBooks,
		Operation: models.OperationCreate,
		LocalID:   "remote-1",
		Data:      json.RawMessage(`{"localId":"remote-1","title":"Faust"}`),
		Timestamp: 150,
	}

	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
			// queue insertion order is preserved on the wire
			require.Len(t, req.Changes, 2)
			assert.Equal(t, "b1", req.Changes[0].LocalID)
			assert.Equal(t, "c1", req.Changes[1].LocalID)
			return models.PushResponse{Success: true, Processed: 2}, nil
		},
	)
	serverAdapter.EXPECT().Pull(gomock.Any(), int64(100)).Return(models.PullResponse{
		Success:    true,
		Changes:    []models.SyncChange{pulled},
		ServerTime: 200,
	}, nil)

	require.NoError(t, svc.RunCycle(ctx))

	// accepted entries are gone
	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// pulled change is visible locally
	got, err := storages.Entities.GetEntity(ctx, models.TableBooks, "remote-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(pulled.Data), string(got))

	// watermark advanced to the server's clock
	meta, err := storages.Meta.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), meta.LastPullTimestamp)
}

func TestClientSyncService_RunCycle_TransportFailureSkipsPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 100)
	enqueueTestChange(t, storages, models.TableBooks, "b1")

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	ctx := context.Background()

	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResponse{}, errors.New("connection refused"))
	// no Pull expectation: a failed push must abort the cycle

	err := svc.RunCycle(ctx)
	require.Error(t, err)

	// the batch went back to pending for the next cycle
	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// the watermark did not move
	meta, err := storages.Meta.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), meta.LastPullTimestamp)
}

func TestClientSyncService_RunCycle_PartialRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 0)
	enqueueTestChange(t, storages, models.TableBooks, "good")
	enqueueTestChange(t, storages, models.TableBooks, "bad")

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	ctx := context.Background()

	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResponse{
		Success:   false,
		Processed: 1,
		Errors: []models.PushError{
			{Table: models.TableBooks, LocalID: "bad", Error: "malformed data payload"},
		},
	}, nil)
	serverAdapter.EXPECT().Pull(gomock.Any(), int64(0)).Return(models.PullResponse{Success: true, ServerTime: 50}, nil)

	require.NoError(t, svc.RunCycle(ctx))

	// only the rejected entry is still queued, with its reason
	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	entries, err := storages.Queue.PeekBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bad", entries[0].Change.LocalID)
	assert.Equal(t, "malformed data payload", entries[0].LastError)
}

func TestClientSyncService_RunCycle_RecoversOrphanedInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 0)
	enqueueTestChange(t, storages, models.TableBooks, "b1")
	ctx := context.Background()

	// claim the entry the way an earlier cycle would, then abandon it
	// without acknowledging, as happens when settling the batch fails
	claimed, err := storages.Queue.PeekBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
			// the abandoned entry must be picked up again
			require.Len(t, req.Changes, 1)
			assert.Equal(t, "b1", req.Changes[0].LocalID)
			return models.PushResponse{Success: true, Processed: 1}, nil
		},
	)
	serverAdapter.EXPECT().Pull(gomock.Any(), int64(0)).Return(models.PullResponse{Success: true, ServerTime: 10}, nil)

	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	require.NoError(t, svc.RunCycle(ctx))

	count, err = storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClientSyncService_Bootstrap_ReplacesLocalStateKeepsQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 0)
	ctx := context.Background()

	// stale local row that the snapshot does not contain
	require.NoError(t, storages.Entities.UpsertEntity(ctx, models.TableBooks, "stale", json.RawMessage(`{"localId":"stale"}`), 1))
	// an unsynced local change waiting in the queue
	enqueueTestChange(t, storages, models.TableVocabularyItems, "local-new")

	snapshot := models.SyncChange{
		Table:     models.TableBooks,
		Operation: models.OperationCreate,
		LocalID:   "b1",
		Data:      json.RawMessage(`{"localId":"b1","title":"Faust"}`),
		Timestamp: 900,
	}

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().FullSync(gomock.Any()).Return(models.PullResponse{
		Success:    true,
		Changes:    []models.SyncChange{snapshot},
		ServerTime: 1_000,
	}, nil)

	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	require.NoError(t, svc.Bootstrap(ctx))

	// snapshot state is authoritative
	_, err := storages.Entities.GetEntity(ctx, models.TableBooks, "stale")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	got, err := storages.Entities.GetEntity(ctx, models.TableBooks, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot.Data), string(got))

	// the queued local change survived and will be pushed next cycle
	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	meta, err := storages.Meta.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), meta.LastPullTimestamp)
}

func TestClientSyncService_RunCycle_UnauthorizedSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storages := newTestClientStorages(t)
	registerTestDevice(t, storages, 0)
	enqueueTestChange(t, storages, models.TableBooks, "b1")

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	serverAdapter.EXPECT().SetToken("token-abc")
	serverAdapter.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResponse{}, adapter.ErrUnauthorized)

	svc := NewClientSyncService(storages, serverAdapter, 100, logger.Nop())
	err := svc.RunCycle(context.Background())

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}
