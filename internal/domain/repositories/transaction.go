package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a read-write transaction
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecSnapshot executes a function within a read-only transaction that
	// observes a single consistent snapshot of the store. Repositories
	// called with the transaction context must not be used concurrently.
	ExecSnapshot(ctx context.Context, fn TxFn) error
}
