// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by *sql.DB and *sql.Tx, so read helpers can run
// inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are per connection, so enable them through the DSN
	// rather than a one-off PRAGMA on whichever connection the pool hands out.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTrip persists a new trip and its initial roster in one transaction.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.Currency == "" {
		trip.Currency = "USD"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, owner_id, currency, created_at) VALUES (?, ?, ?, ?, ?)",
		trip.ID, trip.Name, trip.OwnerID, trip.Currency, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for i := range trip.Participants {
		p := &trip.Participants[i]
		p.TripID = trip.ID
		if err := insertParticipant(ctx, tx, p, trip.CreatedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID, including its participants.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, tripID)
}

func getTrip(ctx context.Context, q querier, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, owner_id, currency, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.OwnerID, &trip.Currency, &trip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	participants, err := listParticipants(ctx, q, tripID)
	if err != nil {
		return nil, err
	}
	trip.Participants = participants
	return trip, nil
}

// ListTripsForUser returns trips owned by the user or where one of the
// participants is linked to the user.
func (s *SQLiteStore) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT t.id FROM trips t
		 LEFT JOIN participants p ON p.trip_id = t.id
		 WHERE t.owner_id = ? OR p.user_id = ?
		 ORDER BY t.created_at DESC, t.id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	trips := make([]*models.Trip, 0, len(ids))
	for _, id := range ids {
		trip, err := s.GetTrip(ctx, id)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// AddParticipant inserts one participant into an existing trip.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", participant.TripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("trip %s: %w", participant.TripID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip: %w", err)
	}

	if err := insertParticipant(ctx, tx, participant, time.Now().Unix()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a participant that no expense or payment refers to.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, tripID, participantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM expense_payers WHERE participant_id = ?) +
		   (SELECT COUNT(*) FROM expense_debtors WHERE participant_id = ?) +
		   (SELECT COUNT(*) FROM payments WHERE from_id = ? OR to_id = ?)`,
		participantID, participantID, participantID, participantID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count participant references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrParticipantReferenced)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND trip_id = ?",
		participantID, tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func listParticipants(ctx context.Context, q querier, tripID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, name, user_id, created_at FROM participants
		 WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var userID sql.NullString
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &userID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.UserID = userID.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// insertParticipant checks name uniqueness within the trip and inserts the row.
func insertParticipant(ctx context.Context, tx *sql.Tx, p *models.Participant, now int64) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}

	var taken int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE trip_id = ? AND name = ? COLLATE NOCASE",
		p.TripID, p.Name,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check participant name: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("participant %q: %w", p.Name, storage.ErrDuplicateParticipant)
	}

	var userID interface{}
	if p.UserID != "" {
		userID = p.UserID
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (id, trip_id, name, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.TripID, p.Name, userID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}
