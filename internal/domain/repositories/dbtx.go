package repositories

import "context"

// txContextKey is the context key for an open transaction handle
type txContextKey struct{}

// WithTx stores an open transaction handle in the context. Each storage
// backend stores its own handle type (pgx.Tx, *sql.Tx).
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFrom retrieves the transaction handle of type T from the context.
// Returns false if no transaction of that type is present.
func TxFrom[T any](ctx context.Context) (T, bool) {
	tx, ok := ctx.Value(txContextKey{}).(T)
	return tx, ok
}
