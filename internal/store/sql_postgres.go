package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
)

// DB wraps the shared *sql.DB handle together with the error classifier used
// to decide whether a failed operation is worth retrying.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectPostgres opens the server database via the pgx stdlib driver and
// pings it with a short backoff. Startup ordering with the database container
// is the only case the retry is meant to cover; once the pool is up, the
// database's own row locking handles concurrent sync writers.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	backoff := retry.WithMaxRetries(5, retry.NewConstant(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := conn.PingContext(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}

	return db, nil
}

// execRetryable runs the statement through [retry.Do], retrying only the
// failures the classifier marks [Retryable] (connection loss, deadlock,
// serialization rollback). Non-retryable failures surface immediately.
func (db *DB) execRetryable(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result

	backoff := retry.WithMaxRetries(3, retry.NewConstant(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var execErr error
		result, execErr = db.ExecContext(ctx, query, args...)
		if execErr == nil {
			return nil
		}
		if db.errorClassificator.Classify(execErr) == Retryable {
			return retry.RetryableError(execErr)
		}
		return execErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func postgresErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
