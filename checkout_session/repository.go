package checkout_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
)

// Schema for the postgres backend:
//
//	CREATE TABLE checkout_session_state (
//	    session_id TEXT        NOT NULL,
//	    key        TEXT        NOT NULL,
//	    value      JSONB       NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (session_id, key)
//	);
type Repository interface {
	Upsert(ctx context.Context, tx pgx.Tx, sessionID string, key Key, value []byte) error
	Get(ctx context.Context, tx pgx.Tx, sessionID string, key Key) ([]byte, bool, error)
	Delete(ctx context.Context, tx pgx.Tx, sessionID string, key Key) error
	DeleteAll(ctx context.Context, tx pgx.Tx, sessionID string) error
}

type repository struct {
	conn driver.PostgresPool
}

func NewRepository(conn driver.PostgresPool) Repository {
	return &repository{conn: conn}
}

func (r *repository) Upsert(ctx context.Context, tx pgx.Tx, sessionID string, key Key, value []byte) error {
	const query = `
    INSERT INTO checkout_session_state (session_id, key, value, updated_at)
    VALUES (@session_id, @key, @value, @updated_at)
    ON CONFLICT (session_id, key) DO UPDATE SET
        value = EXCLUDED.value,
        updated_at = EXCLUDED.updated_at
    `

	args := pgx.NamedArgs{
		"session_id": sessionID,
		"key":        string(key),
		"value":      value,
		"updated_at": time.Now(),
	}

	if _, err := tx.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("failed to upsert checkout state %s: %w", key, err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, tx pgx.Tx, sessionID string, key Key) ([]byte, bool, error) {
	const query = `SELECT value FROM checkout_session_state WHERE session_id = @session_id AND key = @key`

	var value []byte
	err := tx.QueryRow(ctx, query, pgx.NamedArgs{"session_id": sessionID, "key": string(key)}).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get checkout state %s: %w", key, err)
	}

	return value, true, nil
}

func (r *repository) Delete(ctx context.Context, tx pgx.Tx, sessionID string, key Key) error {
	const query = `DELETE FROM checkout_session_state WHERE session_id = @session_id AND key = @key`

	if _, err := tx.Exec(ctx, query, pgx.NamedArgs{"session_id": sessionID, "key": string(key)}); err != nil {
		return fmt.Errorf("failed to delete checkout state %s: %w", key, err)
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context, tx pgx.Tx, sessionID string) error {
	const query = `DELETE FROM checkout_session_state WHERE session_id = @session_id`

	if _, err := tx.Exec(ctx, query, pgx.NamedArgs{"session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to clear checkout state: %w", err)
	}
	return nil
}

type postgresProvider struct {
	repo               Repository
	transactionManager *driver.TransactionManager
}

func NewPostgresProvider(repo Repository, tm *driver.TransactionManager) Provider {
	return &postgresProvider{repo: repo, transactionManager: tm}
}

func (p *postgresProvider) Open(sessionID string) Store {
	return &postgresStore{provider: p, sessionID: sessionID}
}

type postgresStore struct {
	provider  *postgresProvider
	sessionID string
}

func (s *postgresStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	var (
		value []byte
		found bool
	)
	err := s.provider.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		value, found, err = s.provider.repo.Get(ctx, tx, s.sessionID, key)
		return err
	})
	return value, found, err
}

func (s *postgresStore) Set(ctx context.Context, key Key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.provider.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.provider.repo.Upsert(ctx, tx, s.sessionID, key, value)
	})
}

func (s *postgresStore) Remove(ctx context.Context, key Key) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.provider.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.provider.repo.Delete(ctx, tx, s.sessionID, key)
	})
}

func (s *postgresStore) ClearAll(ctx context.Context) error {
	return s.provider.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.provider.repo.DeleteAll(ctx, tx, s.sessionID)
	})
}
