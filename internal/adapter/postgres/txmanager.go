package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxManager runs service callbacks inside one Read Committed transaction,
// carried to repositories through the context.
type TxManager struct {
	db DB
}

func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back when it returns an error
// or panics. A call nested inside another RunInTx joins the outer
// transaction. Rollback ignores ctx cancellation so a dropped request still
// releases its row locks.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// A failed Commit already ends the transaction on the server.
	commitTried := false
	defer func() {
		if commitTried {
			return
		}
		rbErr := rollback(ctx, tx)
		if r := recover(); r != nil {
			panic(r)
		}
		if rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if err = fn(withTx(ctx, tx)); err != nil {
		return err
	}
	commitTried = true
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(context.WithoutCancel(ctx))
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return fmt.Errorf("rollback transaction: %w", err)
}
