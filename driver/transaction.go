package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionManager struct {
	conn   PostgresPool
	logger *zap.Logger
}

func NewTransactionManager(conn PostgresPool, logger *zap.Logger) *TransactionManager {
	return &TransactionManager{conn: conn, logger: logger}
}

// ExecuteTransaction runs fn in a transaction, committing on nil and rolling back otherwise.
func (tm *TransactionManager) ExecuteTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := tm.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			tm.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
