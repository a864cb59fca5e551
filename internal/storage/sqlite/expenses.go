package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// CreateExpense persists a new expense and its payer and debtor rows.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, description, total_minor, category, split_policy, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TripID, expense.Description, expense.TotalMinor, expense.Category,
		expense.SplitPolicy, expense.Date, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including payers and debtors.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, description, total_minor, category, split_policy, date, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.TripID, &expense.Description, &expense.TotalMinor, &expense.Category,
		&expense.SplitPolicy, &expense.Date, &expense.CreatedAt, &expense.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := loadShares(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ReplaceExpense overwrites an expense row and rewrites all of its splits.
// The trip and creation time of the stored expense are kept.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"SELECT trip_id, created_at FROM expenses WHERE id = ?",
		expense.ID,
	).Scan(&expense.TripID, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	expense.UpdatedAt = time.Now().Unix()

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, total_minor = ?, category = ?, split_policy = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.TotalMinor, expense.Category, expense.SplitPolicy,
		expense.Date, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	// Replace splits wholesale
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_payers WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete payers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_debtors WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete debtors: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense. Splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpenses returns all expenses of a trip with their splits, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, tripID)
}

func listExpenses(ctx context.Context, q querier, tripID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, description, total_minor, category, split_policy, date, created_at, updated_at
		 FROM expenses WHERE trip_id = ? ORDER BY date, created_at, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.TripID, &e.Description, &e.TotalMinor, &e.Category,
			&e.SplitPolicy, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := loadShares(ctx, q, e); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, share := range expense.Payers {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, participant_id, amount_minor, position) VALUES (?, ?, ?, ?)",
			expense.ID, share.ParticipantID, share.AmountMinor, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}
	for i, share := range expense.Debtors {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_debtors (expense_id, participant_id, amount_minor, position) VALUES (?, ?, ?, ?)",
			expense.ID, share.ParticipantID, share.AmountMinor, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debtor: %w", err)
		}
	}
	return nil
}

func loadShares(ctx context.Context, q querier, expense *models.Expense) error {
	payers, err := queryShares(ctx, q,
		"SELECT participant_id, amount_minor FROM expense_payers WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	debtors, err := queryShares(ctx, q,
		"SELECT participant_id, amount_minor FROM expense_debtors WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get debtors: %w", err)
	}
	expense.Payers = payers
	expense.Debtors = debtors
	return nil
}

func queryShares(ctx context.Context, q querier, query, expenseID string) ([]models.Share, error) {
	rows, err := q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var sh models.Share
		if err := rows.Scan(&sh.ParticipantID, &sh.AmountMinor); err != nil {
			return nil, err
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}
