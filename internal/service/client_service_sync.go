package service

import (
	"context"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

// clientSyncService performs individual push-then-pull passes.
//
// Ordering is the engine's core invariant: local changes are pushed before
// any server state is pulled, so pull results can be applied without a
// client-side merge. A failed push therefore aborts the whole cycle.
type clientSyncService struct {
	queue         store.ChangeQueue
	entities      store.LocalStore
	meta          store.MetaStore
	serverAdapter adapter.ServerAdapter
	batchSize     int
	logger        *logger.Logger
}

func NewClientSyncService(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, batchSize int, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		queue:         storages.Queue,
		entities:      storages.Entities,
		meta:          storages.Meta,
		serverAdapter: serverAdapter,
		batchSize:     batchSize,
		logger:        logger,
	}
}

func (c *clientSyncService) RunCycle(ctx context.Context) error {
	log := logger.FromContext(ctx)

	meta, err := c.loadRegisteredMeta(ctx)
	if err != nil {
		return err
	}

	// cycles never overlap, so an entry still claimed here was orphaned by
	// a settle failure in an earlier cycle; return it to pending before
	// draining the queue
	recovered, err := c.queue.RecoverInFlight(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover orphaned entries: %w", err)
	}
	if recovered > 0 {
		log.Warn().
			Str("func", "clientSyncService.RunCycle").
			Int64("recovered", recovered).
			Msg("returned orphaned in-flight entries to the queue")
	}

	if err = c.push(ctx); err != nil {
		// entries were already requeued; pulling now could advance the
		// watermark past local changes the server has not seen
		return err
	}

	pullResp, err := c.serverAdapter.Pull(ctx, meta.LastPullTimestamp)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	if err = c.entities.ApplyChanges(ctx, pullResp.Changes); err != nil {
		return fmt.Errorf("failed to apply pulled changes: %w", err)
	}

	meta.LastPullTimestamp = pullResp.ServerTime
	if err = c.meta.Save(ctx, meta); err != nil {
		return fmt.Errorf("failed to advance pull watermark: %w", err)
	}

	log.Debug().
		Str("func", "clientSyncService.RunCycle").
		Int("pulled", len(pullResp.Changes)).
		Int64("server_time", pullResp.ServerTime).
		Msg("sync cycle finished")

	return nil
}

// push drains one batch from the queue. On a transport or auth failure the
// whole batch returns to pending; on a processed response only the rejected
// changes stay queued, with their reasons.
func (c *clientSyncService) push(ctx context.Context) error {
	log := logger.FromContext(ctx)

	entries, err := c.queue.PeekBatch(ctx, c.batchSize)
	if err != nil {
		return fmt.Errorf("failed to claim push batch: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	changes := make([]models.SyncChange, 0, len(entries))
	ids := make([]int64, 0, len(entries))
	for i := range entries {
		changes = append(changes, entries[i].Change)
		ids = append(ids, entries[i].ID)
	}

	pushResp, err := c.serverAdapter.Push(ctx, models.PushRequest{Changes: changes})
	if err != nil {
		if requeueErr := c.queue.Requeue(ctx, ids); requeueErr != nil {
			log.Err(requeueErr).
				Str("func", "clientSyncService.push").
				Msg("failed to requeue batch after push failure")
		}
		return fmt.Errorf("push failed: %w", err)
	}

	return c.settleBatch(ctx, entries, pushResp)
}

// settleBatch acknowledges accepted entries and records per-change
// rejections. Rejections are keyed by (table, localId); when several queued
// entries share a key (create followed by update) all of them stay queued,
// which is safe because re-pushing is idempotent.
func (c *clientSyncService) settleBatch(ctx context.Context, entries []models.QueueEntry, pushResp models.PushResponse) error {
	log := logger.FromContext(ctx)

	rejected := make(map[string]string, len(pushResp.Errors))
	for _, pushErr := range pushResp.Errors {
		rejected[string(pushErr.Table)+"/"+pushErr.LocalID] = pushErr.Error
	}

	var accepted []int64
	for i := range entries {
		key := string(entries[i].Change.Table) + "/" + entries[i].Change.LocalID
		reason, isRejected := rejected[key]
		if !isRejected {
			accepted = append(accepted, entries[i].ID)
			continue
		}

		log.Warn().
			Str("func", "clientSyncService.settleBatch").
			Str("table", string(entries[i].Change.Table)).
			Str("local_id", entries[i].Change.LocalID).
			Str("reason", reason).
			Msg("change rejected by server")
		if err := c.queue.MarkFailed(ctx, entries[i].ID, reason); err != nil {
			return fmt.Errorf("failed to record rejection: %w", err)
		}
	}

	if err := c.queue.Acknowledge(ctx, accepted); err != nil {
		return fmt.Errorf("failed to acknowledge pushed entries: %w", err)
	}

	return nil
}

// Bootstrap replaces local replicated state with the server's snapshot.
// Queued entries are deliberately untouched: unsynced local changes survive
// the bootstrap and win their rows back on the next push.
func (c *clientSyncService) Bootstrap(ctx context.Context) error {
	log := logger.FromContext(ctx)

	meta, err := c.loadRegisteredMeta(ctx)
	if err != nil {
		return err
	}

	snapshot, err := c.serverAdapter.FullSync(ctx)
	if err != nil {
		return fmt.Errorf("full sync failed: %w", err)
	}

	if err = c.entities.ResetAll(ctx); err != nil {
		return fmt.Errorf("failed to reset local state: %w", err)
	}
	if err = c.entities.ApplyChanges(ctx, snapshot.Changes); err != nil {
		return fmt.Errorf("failed to apply snapshot: %w", err)
	}

	meta.LastPullTimestamp = snapshot.ServerTime
	if err = c.meta.Save(ctx, meta); err != nil {
		return fmt.Errorf("failed to advance pull watermark: %w", err)
	}

	log.Info().
		Str("func", "clientSyncService.Bootstrap").
		Int("applied", len(snapshot.Changes)).
		Msg("bootstrap finished")

	return nil
}

func (c *clientSyncService) loadRegisteredMeta(ctx context.Context) (models.SyncMeta, error) {
	meta, err := c.meta.Load(ctx)
	if err != nil {
		return models.SyncMeta{}, fmt.Errorf("failed to load sync meta: %w", err)
	}
	if !meta.IsRegistered {
		return models.SyncMeta{}, ErrNotRegistered
	}

	c.serverAdapter.SetToken(meta.AuthToken)
	return meta, nil
}
