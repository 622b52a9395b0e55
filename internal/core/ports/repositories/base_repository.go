package repositories

import (
	"context"
)

// LedgerTx exposes every repository operation bound to one open store transaction.
type LedgerTx interface {
	AccountReader
	AccountWriter
	JournalReader
	JournalWriter
	AuditWriter
	PaymentReader
	PaymentWriter
	RefundReader
	RefundWriter
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTransaction runs fn inside a store transaction. The transaction commits when fn
	// returns nil and rolls back otherwise, so nothing fn wrote is visible on failure.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
