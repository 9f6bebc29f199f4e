package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/stfnfhrmnn/vocabsync/models"
)

const (
	createUser = `INSERT INTO users (login, password_hash)
    VALUES ($1, $2)
    RETURNING user_id, login, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, created_at
    FROM users
    WHERE login = $1;`
)

// psql is the shared statement builder configured for PostgreSQL's
// dollar-sign placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// replicatedColumns is the fixed projection replicated for every table.
// Server-internal columns (the surrogate id) never leave the store.
var replicatedColumns = []string{"local_id", "data", "created_at", "updated_at", "deleted_at"}

// tableName maps a SyncTable onto its SQL identifier. Every builder below
// goes through this function so that a table name can never be interpolated
// from unvalidated input.
func tableName(table models.SyncTable) (string, error) {
	if !table.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSyncTable, table)
	}
	return string(table), nil
}

// buildUpsertQuery builds the idempotent create/update statement for one
// change: insert the row, or replace the whole payload and clear the
// tombstone on conflict of the (user_id, local_id) natural key.
func buildUpsertQuery(userID int64, change models.SyncChange, now time.Time) (string, []any, error) {
	table, err := tableName(change.Table)
	if err != nil {
		return "", nil, err
	}

	return psql.Insert(table).
		Columns("user_id", "local_id", "data", "created_at", "updated_at").
		Values(userID, change.LocalID, []byte(change.Data), now, now).
		Suffix(`ON CONFLICT (user_id, local_id) DO UPDATE
			SET data = EXCLUDED.data,
			    updated_at = EXCLUDED.updated_at,
			    deleted_at = NULL`).
		ToSql()
}

// buildSoftDeleteQuery builds the tombstone statement. A delete targeting a
// row the server has never seen inserts a bare tombstone, so the deletion
// still replicates to other devices.
func buildSoftDeleteQuery(userID int64, table models.SyncTable, localID string, now time.Time) (string, []any, error) {
	name, err := tableName(table)
	if err != nil {
		return "", nil, err
	}

	return psql.Insert(name).
		Columns("user_id", "local_id", "data", "created_at", "updated_at", "deleted_at").
		Values(userID, localID, []byte(`{}`), now, now, now).
		Suffix(`ON CONFLICT (user_id, local_id) DO UPDATE
			SET deleted_at = EXCLUDED.deleted_at,
			    updated_at = EXCLUDED.updated_at`).
		ToSql()
}

// buildChangesSinceQuery selects the replicated projection of one table for
// rows touched after since: either edited (updated_at) or tombstoned
// (deleted_at).
func buildChangesSinceQuery(table models.SyncTable, userID int64, since time.Time) (string, []any, error) {
	name, err := tableName(table)
	if err != nil {
		return "", nil, err
	}

	return psql.Select(replicatedColumns...).
		From(name).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Or{
			sq.Gt{"updated_at": since},
			sq.Gt{"deleted_at": since},
		}).
		OrderBy("updated_at ASC").
		ToSql()
}

// buildSnapshotQuery selects every live row of one table for full sync.
func buildSnapshotQuery(table models.SyncTable, userID int64) (string, []any, error) {
	name, err := tableName(table)
	if err != nil {
		return "", nil, err
	}

	return psql.Select(replicatedColumns...).
		From(name).
		Where(sq.Eq{"user_id": userID, "deleted_at": nil}).
		OrderBy("updated_at ASC").
		ToSql()
}
