package client

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/mock"
	"github.com/stfnfhrmnn/vocabsync/internal/service"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/workers"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func newTestApp(t *testing.T, ctrl *gomock.Controller, enrollment *Enrollment) (*App, *store.ClientStorages, *mock.MockServerAdapter) {
	t.Helper()

	storages, err := store.NewClientStorages(
		context.Background(),
		config.ClientStorage{Path: filepath.Join(t.TempDir(), "client.db")},
		logger.Nop(),
	)
	require.NoError(t, err)

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	cfg := &config.ClientConfig{
		Workers: config.ClientWorkers{
			SyncInterval:  time.Minute,
			PushBatchSize: 100,
		},
	}

	services := service.NewClientServices(storages, serverAdapter, cfg, logger.Nop())
	background := workers.NewWorkers(services, logger.Nop())

	app, err := NewApp(services, storages, background, enrollment, logger.Nop())
	require.NoError(t, err)
	return app, storages, serverAdapter
}

func TestApp_Startup_NoSessionStaysParked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, _, _ := newTestApp(t, ctrl, nil)

	registered, err := app.startup(context.Background())
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestApp_Startup_RegisterEnrollmentBootstrapsDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, storages, serverAdapter := newTestApp(t, ctrl, &Enrollment{
		CreateAccount: true,
		Login:         "alice",
		Password:      "s3cret",
	})
	ctx := context.Background()

	snapshot := models.SyncChange{
		Table:     models.TableBooks,
		Operation: models.OperationCreate,
		LocalID:   "b1",
		Data:      json.RawMessage(`{"localId":"b1","title":"Faust"}`),
		Timestamp: 400,
	}

	serverAdapter.EXPECT().Register(gomock.Any(), models.User{Login: "alice", Password: "s3cret"}).
		Return(models.Token{UserID: 7, SignedString: "tok-1"}, nil)
	serverAdapter.EXPECT().SetToken("tok-1").Times(2)
	serverAdapter.EXPECT().FullSync(gomock.Any()).Return(models.PullResponse{
		Success:    true,
		Changes:    []models.SyncChange{snapshot},
		ServerTime: 500,
	}, nil)

	registered, err := app.startup(ctx)
	require.NoError(t, err)
	assert.True(t, registered)

	// the session is persisted and the snapshot is applied locally
	meta, err := storages.Meta.Load(ctx)
	require.NoError(t, err)
	assert.True(t, meta.IsRegistered)
	assert.Equal(t, int64(7), meta.UserID)
	assert.Equal(t, int64(500), meta.LastPullTimestamp)

	got, err := storages.Entities.GetEntity(ctx, models.TableBooks, "b1")
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot.Data), string(got))
}

func TestApp_Startup_LoginEnrollmentKeepsQueuedChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, storages, serverAdapter := newTestApp(t, ctrl, &Enrollment{
		Login:    "alice",
		Password: "s3cret",
	})
	ctx := context.Background()

	// a change captured before the device was linked to an account
	_, err := storages.Queue.Enqueue(ctx, models.SyncChange{
		Table:     models.TableVocabularyItems,
		Operation: models.OperationCreate,
		LocalID:   "v1",
		Data:      json.RawMessage(`{"localId":"v1"}`),
		Timestamp: 1,
	})
	require.NoError(t, err)

	serverAdapter.EXPECT().Login(gomock.Any(), models.User{Login: "alice", Password: "s3cret"}).
		Return(models.Token{UserID: 7, SignedString: "tok-2"}, nil)
	serverAdapter.EXPECT().SetToken("tok-2").Times(2)
	serverAdapter.EXPECT().FullSync(gomock.Any()).Return(models.PullResponse{Success: true, ServerTime: 500}, nil)

	registered, err := app.startup(ctx)
	require.NoError(t, err)
	assert.True(t, registered)

	count, err := storages.Queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApp_Startup_EnrollmentFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app, storages, serverAdapter := newTestApp(t, ctrl, &Enrollment{
		CreateAccount: true,
		Login:         "alice",
		Password:      "s3cret",
	})
	ctx := context.Background()

	serverAdapter.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(models.Token{}, errors.New("login already taken"))

	_, err := app.startup(ctx)
	require.Error(t, err)

	// the device stays unlinked
	meta, err := storages.Meta.Load(ctx)
	require.NoError(t, err)
	assert.False(t, meta.IsRegistered)
}
