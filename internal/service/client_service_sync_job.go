package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

// SyncTrigger names the event that requested a sync cycle.
type SyncTrigger string

const (
	TriggerTicker     SyncTrigger = "ticker"
	TriggerOnline     SyncTrigger = "online"
	TriggerForeground SyncTrigger = "foreground"
	TriggerManual     SyncTrigger = "manual"
)

// clientSyncJob is the orchestrator state machine.
//
// At most one cycle runs at a time: a tick or trigger arriving mid-cycle is
// dropped, not queued, because the running cycle already drains everything
// that was pending when it claimed its batch. Auth failures park the machine
// in the error state and only a manual trigger (after re-login) restarts it.
type clientSyncJob struct {
	syncService ClientSyncService
	queue       store.ChangeQueue
	meta        store.MetaStore
	interval    time.Duration
	logger      *logger.Logger

	mu         sync.Mutex
	state      models.SyncState
	lastError  string
	online     bool
	inFlight   bool
	authFailed bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	triggers chan SyncTrigger
}

func NewClientSyncJob(syncService ClientSyncService, storages *store.ClientStorages, interval time.Duration, logger *logger.Logger) ClientSyncJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &clientSyncJob{
		syncService: syncService,
		queue:       storages.Queue,
		meta:        storages.Meta,
		interval:    interval,
		logger:      logger,
		state:       models.SyncStateIdle,
		online:      true,
		triggers:    make(chan SyncTrigger, 8),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches the loop goroutine. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runCycle(jobCtx, TriggerTicker)
			case trigger := <-j.triggers:
				j.runCycle(jobCtx, trigger)
			}
		}
	}()
}

// Stop implements ClientSyncJob. Safe to call when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) Trigger(trigger SyncTrigger) {
	select {
	case j.triggers <- trigger:
	default:
		// the channel already holds a pending request; one cycle serves
		// them all
	}
}

func (j *clientSyncJob) SetOnline(online bool) {
	j.mu.Lock()
	wasOffline := !j.online
	j.online = online
	if !online {
		j.state = models.SyncStateOffline
		j.lastError = ""
	} else if j.state == models.SyncStateOffline {
		j.state = models.SyncStateIdle
	}
	j.mu.Unlock()

	if online && wasOffline {
		j.Trigger(TriggerOnline)
	}
}

// runCycle enforces the machine's admission rules, then runs one cycle.
func (j *clientSyncJob) runCycle(ctx context.Context, trigger SyncTrigger) {
	j.mu.Lock()
	if !j.online {
		j.state = models.SyncStateOffline
		j.mu.Unlock()
		return
	}
	if j.inFlight {
		j.mu.Unlock()
		return
	}
	if j.authFailed && trigger != TriggerManual {
		// retrying with a dead token only produces 401 noise
		j.mu.Unlock()
		return
	}
	j.inFlight = true
	j.authFailed = false
	j.state = models.SyncStateSyncing
	j.mu.Unlock()

	err := j.syncService.RunCycle(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.inFlight = false

	switch {
	case err == nil:
		j.state = models.SyncStateIdle
		j.lastError = ""
	case errors.Is(err, ErrNotRegistered):
		j.state = models.SyncStateIdle
		j.lastError = ""
	case errors.Is(err, adapter.ErrUnauthorized):
		j.authFailed = true
		j.state = models.SyncStateError
		j.lastError = "authentication expired, log in again"
		j.logger.Warn().
			Str("func", "clientSyncJob.runCycle").
			Str("trigger", string(trigger)).
			Msg("sync stopped: unauthorized")
	default:
		j.state = models.SyncStateError
		j.lastError = err.Error()
		j.logger.Warn().
			Str("func", "clientSyncJob.runCycle").
			Str("trigger", string(trigger)).
			Err(err).
			Msg("sync cycle failed")
	}
}

func (j *clientSyncJob) Status(ctx context.Context) models.SyncStatus {
	j.mu.Lock()
	status := models.SyncStatus{
		State:     j.state,
		LastError: j.lastError,
	}
	j.mu.Unlock()

	if count, err := j.queue.PendingCount(ctx); err == nil {
		status.PendingCount = count
	}
	if meta, err := j.meta.Load(ctx); err == nil {
		status.LastPullTimestamp = meta.LastPullTimestamp
	}

	return status
}
