package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tripledger/internal/storage"
)

// LoadTripSnapshot reads the trip, its expenses and its payments inside one
// read transaction. SQLite holds the shared lock from the first read until
// the transaction ends, so writes committed meanwhile are not seen.
func (s *SQLiteStore) LoadTripSnapshot(ctx context.Context, tripID string) (*storage.TripSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := getTrip(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := listExpenses(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	payments, err := listPayments(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}

	return &storage.TripSnapshot{Trip: trip, Expenses: expenses, Payments: payments}, nil
}
