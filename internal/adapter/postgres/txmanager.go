package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager manages database transactions using the context pattern.
// Every multi-step mutation in the lifecycle and conversion services runs
// through RunInTx so that the mutation and its audit trail commit together.
// A RunInTx call inside a RunInTx callback opens a savepoint on the
// enclosing transaction, so a failed inner fn rolls back only its own
// statements and leaves the outer transaction usable. PostgreSQL aborts
// the whole transaction on any statement error otherwise, which would
// break retry loops such as barcode regeneration.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// RunInTx executes fn within a database transaction.
// Isolation level: Read Committed (PostgreSQL default). Correctness of
// concurrent decrements does not depend on a stronger level; it rests on
// conditional updates checked via affected-row counts.
// On success: commits.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if outer, ok := txFromCtx(ctx); ok {
		return runInSavepoint(ctx, outer, fn)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	txCtx := withTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// runInSavepoint executes fn inside a savepoint on an already open
// transaction. pgx implements Begin on a pgx.Tx as SAVEPOINT, and
// Rollback on the nested handle as ROLLBACK TO SAVEPOINT.
func runInSavepoint(ctx context.Context, outer pgx.Tx, fn func(ctx context.Context) error) error {
	sp, err := outer.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = sp.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, sp)); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback savepoint failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	return nil
}
