// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

var (
	// ErrNotFound is returned when a trip, participant, expense or payment
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParticipantReferenced is returned when removing a participant that
	// an expense or payment still refers to.
	ErrParticipantReferenced = errors.New("participant is referenced by expenses or payments")

	// ErrDuplicateParticipant is returned when a trip already has a
	// participant with the same name.
	ErrDuplicateParticipant = errors.New("participant name already used in this trip")
)

// TripSnapshot is a trip read together with everything recorded against it.
type TripSnapshot struct {
	Trip     *models.Trip
	Expenses []*models.Expense
	Payments []*models.Payment
}

// Store defines the interface for trip ledger storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer. Implementations store what they are given; expense
// validation happens before a write reaches the store.
type Store interface {
	// CreateTrip persists a new trip together with its initial participants.
	// ID and CreatedAt fields on the trip and participants are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip and its roster.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsForUser returns trips the user owns or participates in,
	// newest first.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)

	// AddParticipant adds one participant to an existing trip.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant deletes a participant. Fails with
	// ErrParticipantReferenced if any expense or payment refers to them.
	RemoveParticipant(ctx context.Context, tripID, participantID string) error

	// CreateExpense persists a new expense with its payers and debtors.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its payers and debtors.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ReplaceExpense overwrites an existing expense wholesale, splits included.
	ReplaceExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns every expense of a trip, oldest first.
	ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error)

	// CreatePayment records a settle-up payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns every payment of a trip, oldest first.
	ListPayments(ctx context.Context, tripID string) ([]*models.Payment, error)

	// LoadTripSnapshot reads a trip, its expenses and its payments as of a
	// single point in time.
	LoadTripSnapshot(ctx context.Context, tripID string) (*TripSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
