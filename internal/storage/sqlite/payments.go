package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
)

// CreatePayment persists a new settle-up payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var note interface{} = nil
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, trip_id, from_id, to_id, amount_minor, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.TripID, payment.FromID, payment.ToID,
		payment.AmountMinor, note, payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ListPayments retrieves all payments for a trip, oldest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, tripID string) ([]*models.Payment, error) {
	return listPayments(ctx, s.db, tripID)
}

func listPayments(ctx context.Context, q querier, tripID string) ([]*models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, from_id, to_id, amount_minor, note, created_by, created_at
		 FROM payments WHERE trip_id = ? ORDER BY created_at, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var note sql.NullString
		if err := rows.Scan(&p.ID, &p.TripID, &p.FromID, &p.ToID,
			&p.AmountMinor, &note, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if note.Valid {
			p.Note = note.String
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
