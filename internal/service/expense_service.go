package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store storage.Store
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// PreviewSplit runs the split calculator without touching storage, so a UI
// can show shares while the user is still editing an expense.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	slog.Info("PreviewSplit request received",
		"total", req.Msg.Total.String(),
		"participants_count", len(req.Msg.ParticipantIds),
		"split_policy", req.Msg.SplitPolicy,
	)

	policy, err := ledger.ParseSplitPolicy(req.Msg.SplitPolicy)
	if err != nil {
		return nil, toConnectError(err)
	}
	total, err := amountFromAPI("total", req.Msg.Total)
	if err != nil {
		return nil, toConnectError(err)
	}

	subset := make([]ledger.ParticipantID, len(req.Msg.ParticipantIds))
	for i, id := range req.Msg.ParticipantIds {
		subset[i] = ledger.ParticipantID(id)
	}

	var custom map[ledger.ParticipantID]ledger.Amount
	if policy == ledger.SplitCustom {
		shares, err := sharesFromAPI("custom_amounts", req.Msg.CustomAmounts)
		if err != nil {
			return nil, toConnectError(err)
		}
		custom = make(map[ledger.ParticipantID]ledger.Amount, len(shares))
		for _, sh := range shares {
			custom[sh.ParticipantID] = sh.Amount
		}
	}

	shares, err := ledger.CalculateSplit(total, subset, policy, custom)
	if err != nil {
		slog.Warn("PreviewSplit rejected", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{
		Shares:         sharesToAPI(shares),
		PerPersonShare: ledger.PerPersonShare(total, len(shares)).Decimal(),
	}), nil
}

// CreateExpense validates an expense against the trip roster and stores it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"trip_id", req.Msg.TripId,
		"total", req.Msg.Expense.Total.String(),
		"split_policy", req.Msg.Expense.SplitPolicy,
	)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	rec, err := validateExpense(trip, "", req.Msg.Expense)
	if err != nil {
		slog.Warn("CreateExpense rejected", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := modelFromRecord(trip.ID, rec)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "trip_id", trip.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense returns one expense.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseId)

	expense, _, err := s.authorizedExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// UpdateExpense replaces an expense wholesale. The new version goes through
// the same validation as a new expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseId,
		"total", req.Msg.Expense.Total.String(),
		"split_policy", req.Msg.Expense.SplitPolicy,
	)

	existing, trip, err := s.authorizedExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	rec, err := validateExpense(trip, existing.ID, req.Msg.Expense)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := modelFromRecord(trip.ID, rec)
	if err := s.store.ReplaceExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "trip_id", trip.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// DeleteExpense removes an expense. Balances change on the next read.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseId)

	existing, _, err := s.authorizedExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, existing.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "trip_id", existing.TripID, "expense_id", existing.ID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns the trip's expenses ordered by date.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "trip_id", req.Msg.TripId)

	snap, err := loadSnapshot(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	out := make([]*api.Expense, len(snap.stored))
	var spent ledger.Amount
	for i, e := range snap.stored {
		out[i] = expenseToAPI(e)
		spent += ledger.Amount(e.TotalMinor)
	}

	slog.Info("ListExpenses successful", "trip_id", req.Msg.TripId, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses:   out,
		TotalSpent: spent.Decimal(),
	}), nil
}

// authorizedExpense loads an expense and the trip it belongs to, checking
// the caller may see the trip.
func (s *ExpenseService) authorizedExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Trip, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, nil, err
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	trip, err := authorizedTrip(ctx, s.store, expense.TripID)
	if err != nil {
		return nil, nil, err
	}
	return expense, trip, nil
}

// validateExpense turns a wire expense into a validated ledger record.
func validateExpense(trip *models.Trip, id string, in api.ExpenseInput) (ledger.ExpenseRecord, error) {
	roster, err := rosterFromTrip(trip)
	if err != nil {
		return ledger.ExpenseRecord{}, internalError("stored roster is invalid", trip.ID, err)
	}
	input, err := expenseInputFromAPI(id, in)
	if err != nil {
		return ledger.ExpenseRecord{}, err
	}
	return ledger.NewExpense(roster, input)
}
