package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/stfnfhrmnn/vocabsync/models"
)

// sqlite builders use ? placeholders, unlike the server's dollar builders.
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// clientSchema bootstraps the embedded database: the change queue, one table
// per replicated table, and the single sync meta row. Applied idempotently
// on every start.
const clientSchema = `
CREATE TABLE IF NOT EXISTS change_queue (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	table_name  TEXT    NOT NULL,
	operation   TEXT    NOT NULL,
	local_id    TEXT    NOT NULL,
	data        TEXT,
	status      TEXT    NOT NULL DEFAULT 'pending',
	attempts    INTEGER NOT NULL DEFAULT 0,
	last_error  TEXT    NOT NULL DEFAULT '',
	enqueued_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_change_queue_status ON change_queue (status, id);

CREATE TABLE IF NOT EXISTS books (
	local_id   TEXT    PRIMARY KEY,
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS chapters (
	local_id   TEXT    PRIMARY KEY,
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sections (
	local_id   TEXT    PRIMARY KEY,
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS vocabulary_items (
	local_id   TEXT    PRIMARY KEY,
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS learning_progress (
	local_id   TEXT    PRIMARY KEY,
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sync_meta (
	id                  INTEGER PRIMARY KEY CHECK (id = 1),
	is_registered       INTEGER NOT NULL DEFAULT 0,
	user_id             INTEGER NOT NULL DEFAULT 0,
	auth_token          TEXT    NOT NULL DEFAULT '',
	last_pull_timestamp INTEGER NOT NULL DEFAULT 0
);`

const (
	enqueueChange = `
		INSERT INTO change_queue (table_name, operation, local_id, data, status, attempts, last_error, enqueued_at)
		VALUES (?, ?, ?, ?, 'pending', 0, '', ?);`

	selectClaimableBatch = `
		SELECT id, table_name, operation, local_id, data, status, attempts, last_error, enqueued_at
		FROM change_queue
		WHERE status IN ('pending', 'failed')
		ORDER BY id ASC
		LIMIT ?;`

	markEntryFailed = `
		UPDATE change_queue
		SET status = 'failed', last_error = ?
		WHERE id = ?;`

	recoverInFlightEntries = `
		UPDATE change_queue
		SET status = 'pending'
		WHERE status = 'in-flight';`

	countPendingEntries = `
		SELECT COUNT(*)
		FROM change_queue
		WHERE status IN ('pending', 'failed');`

	loadSyncMeta = `
		SELECT is_registered, user_id, auth_token, last_pull_timestamp
		FROM sync_meta
		WHERE id = 1;`

	saveSyncMeta = `
		INSERT INTO sync_meta (id, is_registered, user_id, auth_token, last_pull_timestamp)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			is_registered       = excluded.is_registered,
			user_id             = excluded.user_id,
			auth_token          = excluded.auth_token,
			last_pull_timestamp = excluded.last_pull_timestamp;`
)

// buildClaimQuery marks the given entries in-flight and bumps their attempt
// counters in one statement.
func buildClaimQuery(ids []int64) (string, []any, error) {
	return sqlite.
		Update("change_queue").
		Set("status", string(models.QueueInFlight)).
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// buildAcknowledgeQuery removes accepted entries from the queue.
func buildAcknowledgeQuery(ids []int64) (string, []any, error) {
	return sqlite.
		Delete("change_queue").
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// buildRequeueQuery returns claimed entries to pending.
func buildRequeueQuery(ids []int64) (string, []any, error) {
	return sqlite.
		Update("change_queue").
		Set("status", string(models.QueuePending)).
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// Entity statements are templated over the table whitelist; table names can
// never come from a change payload directly.

func buildLocalUpsertQuery(table models.SyncTable) (string, error) {
	name, err := tableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		INSERT INTO %s (local_id, data, updated_at, deleted)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (local_id) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at,
			deleted    = 0;`, name), nil
}

func buildLocalDeleteQuery(table models.SyncTable) (string, error) {
	name, err := tableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		INSERT INTO %s (local_id, data, updated_at, deleted)
		VALUES (?, '{}', ?, 1)
		ON CONFLICT (local_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			deleted    = 1;`, name), nil
}

func buildLocalGetQuery(table models.SyncTable) (string, error) {
	name, err := tableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		SELECT data FROM %s
		WHERE local_id = ? AND deleted = 0;`, name), nil
}

func buildLocalListQuery(table models.SyncTable) (string, error) {
	name, err := tableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		SELECT data FROM %s
		WHERE deleted = 0
		ORDER BY updated_at ASC, local_id ASC;`, name), nil
}

func buildLocalPurgeQuery(table models.SyncTable) (string, error) {
	name, err := tableName(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`DELETE FROM %s;`, name), nil
}
