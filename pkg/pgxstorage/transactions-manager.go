package pgxstorage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type TransactionsManager struct {
	storage *DBStorage
}

func NewTransactionsManager(storage *DBStorage) *TransactionsManager {
	return &TransactionsManager{
		storage: storage,
	}
}

// DoWithTransaction runs f with a context that carries a transaction; DBStorage
// calls made with that context join it. The transaction commits when f succeeds.
func (tm *TransactionsManager) DoWithTransaction(
	ctx context.Context,
	f func(ctx context.Context) error,
) error {
	ctxWithTransaction, tx, err := tm.storage.withTransaction(ctx)
	if err != nil {
		return err
	}
	if err = f(ctxWithTransaction); err != nil {
		return rollback(tx, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return rollback(tx, fmt.Errorf("transaction commit failed: %w", err))
	}
	return nil
}

func rollback(tx pgx.Tx, cause error) error {
	if err := tx.Rollback(context.Background()); err != nil {
		return fmt.Errorf("transaction rollback failed: %w, rollback caused by %w", err, cause)
	}
	return cause
}
