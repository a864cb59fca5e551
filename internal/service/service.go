// Package service implements the Connect handlers for trips and expenses.
//
// Handlers translate wire messages into ledger values, run the ledger
// engine on a fresh snapshot of the trip, and persist through storage.Store.
// Nothing derived (balances, settlements, shares) is stored or cached.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

var (
	errNotMember     = errors.New("you must be the owner or a participant of this trip")
	errMissingCaller = errors.New("caller identity missing")
)

// callerID returns the authenticated user, or an Unauthenticated error when
// the auth interceptor did not run.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errMissingCaller)
	}
	return userID, nil
}

// toConnectError maps ledger and storage failures to Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrSplitMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrParticipantReferenced):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrDuplicateParticipant):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// authorizedTrip loads a trip and checks the caller may see it.
func authorizedTrip(ctx context.Context, store storage.Store, tripID string) (*models.Trip, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !trip.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return trip, nil
}

// snapshot is a consistent in-memory view of one trip, ready for the
// ledger engine.
type snapshot struct {
	trip     *models.Trip
	roster   *ledger.Roster
	expenses []ledger.ExpenseRecord
	payments []ledger.Payment
	stored   []*models.Expense
}

// loadSnapshot reads a trip with its expenses and payments as of one point
// in time, checks access, and rebuilds validated ledger records from storage.
func loadSnapshot(ctx context.Context, store storage.Store, tripID string) (*snapshot, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := store.LoadTripSnapshot(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	trip, expenses, payments := stored.Trip, stored.Expenses, stored.Payments

	if !trip.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}

	roster, err := rosterFromTrip(trip)
	if err != nil {
		return nil, internalError("stored roster is invalid", tripID, err)
	}

	snap := &snapshot{
		trip:     trip,
		roster:   roster,
		expenses: make([]ledger.ExpenseRecord, 0, len(expenses)),
		payments: make([]ledger.Payment, 0, len(payments)),
		stored:   expenses,
	}
	for _, e := range expenses {
		rec, err := recordFromModel(roster, e)
		if err != nil {
			return nil, internalError("stored expense is invalid", tripID, fmt.Errorf("expense %s: %w", e.ID, err))
		}
		snap.expenses = append(snap.expenses, rec)
	}
	for _, p := range payments {
		snap.payments = append(snap.payments, paymentFromModel(p))
	}
	return snap, nil
}

// balances folds expenses and then recorded payments into net positions.
func (s *snapshot) balances() ledger.Balances {
	b := ledger.ComputeBalances(s.roster.Participants(), s.expenses)
	return ledger.ApplyPayments(b, s.payments)
}

func (s *snapshot) name(id ledger.ParticipantID) string {
	if p, ok := s.roster.Get(id); ok {
		return p.Name
	}
	return string(id)
}

// internalError logs data that failed to round-trip from storage. Stored
// rows are validated on write, so this means the database was edited by hand.
func internalError(msg, tripID string, err error) error {
	slog.Error(msg, "trip_id", tripID, "error", err)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: %w", msg, err))
}
