package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// TripService implements the Connect TripService: trips, rosters, balances,
// settlement suggestions and recorded payments.
type TripService struct {
	store storage.Store
}

var _ api.TripServiceHandler = (*TripService)(nil)

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTrip creates a trip owned by the caller with an initial roster.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
		"user_id", userID,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			&ledger.ValidationError{Kind: ledger.KindInvalidParticipant, Field: "name", Msg: "trip name is required"})
	}

	trip := &models.Trip{
		Name:     name,
		OwnerID:  userID,
		Currency: strings.ToUpper(strings.TrimSpace(req.Msg.Currency)),
	}
	names := make([]string, 0, len(req.Msg.Participants))
	for _, p := range req.Msg.Participants {
		names = append(names, p.Name)
		trip.Participants = append(trip.Participants, models.Participant{
			Name:   strings.TrimSpace(p.Name),
			UserID: p.UserId,
		})
	}
	if err := checkParticipantNames(names); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "participants_count", len(trip.Participants))

	return connect.NewResponse(&api.CreateTripResponse{Trip: tripToAPI(trip)}), nil
}

// GetTrip returns a trip and its roster.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripId)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetTripResponse{Trip: tripToAPI(trip)}), nil
}

// ListTrips returns the trips the caller owns or participates in.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.ListTripsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListTrips failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToAPI(t)
	}

	slog.Info("ListTrips successful", "user_id", userID, "count", len(trips))

	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// AddParticipant adds one person to a trip's roster.
func (s *TripService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "trip_id", req.Msg.TripId, "name", req.Msg.Name)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(trip.Participants)+1)
	for _, p := range trip.Participants {
		names = append(names, p.Name)
	}
	names = append(names, req.Msg.Name)
	if err := checkParticipantNames(names); err != nil {
		if ledger.IsKind(err, ledger.KindDuplicateParticipant) {
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		}
		return nil, toConnectError(err)
	}

	participant := &models.Participant{
		TripID: trip.ID,
		Name:   strings.TrimSpace(req.Msg.Name),
		UserID: req.Msg.UserId,
	}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "trip_id", trip.ID, "participant_id", participant.ID)

	return connect.NewResponse(&api.AddParticipantResponse{Participant: participantToAPI(participant)}), nil
}

// RemoveParticipant drops a participant no expense or payment refers to.
func (s *TripService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"trip_id", req.Msg.TripId,
		"participant_id", req.Msg.ParticipantId,
	)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveParticipant(ctx, trip.ID, req.Msg.ParticipantId); err != nil {
		slog.Warn("RemoveParticipant failed", "trip_id", trip.ID, "participant_id", req.Msg.ParticipantId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant removed", "trip_id", trip.ID, "participant_id", req.Msg.ParticipantId)

	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// GetBalances computes every participant's net position from the trip's
// expenses and recorded payments.
func (s *TripService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "trip_id", req.Msg.TripId)

	snap, err := loadSnapshot(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	balances := snap.balances()
	var spent ledger.Amount
	for _, e := range snap.expenses {
		spent += e.Total()
	}

	// Roster order reads better than id order in a UI.
	out := make([]api.Balance, 0, len(balances))
	for _, p := range snap.roster.Participants() {
		b := balances[p.ID]
		out = append(out, api.Balance{
			ParticipantId: string(p.ID),
			Name:          p.Name,
			Paid:          b.Paid.Decimal(),
			Owed:          b.Owed.Decimal(),
			Net:           b.Net.Decimal(),
		})
	}

	slog.Info("GetBalances successful",
		"trip_id", req.Msg.TripId,
		"expenses_count", len(snap.expenses),
		"payments_count", len(snap.payments),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:   out,
		TotalSpent: spent.Decimal(),
	}), nil
}

// GetSettlement suggests transfers that would settle the trip, after
// recorded payments are taken into account.
func (s *TripService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "trip_id", req.Msg.TripId)

	snap, err := loadSnapshot(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	transfers := ledger.ComputeSettlement(snap.balances())
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{
			FromId:   string(t.From),
			FromName: snap.name(t.From),
			ToId:     string(t.To),
			ToName:   snap.name(t.To),
			Amount:   t.Amount.Decimal(),
		}
	}

	slog.Info("GetSettlement successful", "trip_id", req.Msg.TripId, "transfers_count", len(out))

	return connect.NewResponse(&api.GetSettlementResponse{Transfers: out}), nil
}

// RecordPayment stores money handed from one participant to another.
func (s *TripService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"trip_id", req.Msg.TripId,
		"from_id", req.Msg.FromId,
		"to_id", req.Msg.ToId,
		"amount", req.Msg.Amount.String(),
	)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}
	roster, err := rosterFromTrip(trip)
	if err != nil {
		return nil, internalError("stored roster is invalid", trip.ID, err)
	}

	amount, err := amountFromAPI("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	check := ledger.Payment{From: ledger.ParticipantID(req.Msg.FromId), To: ledger.ParticipantID(req.Msg.ToId), Amount: amount}
	if err := ledger.ValidatePayment(roster, check); err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		TripID:      trip.ID,
		FromID:      req.Msg.FromId,
		ToID:        req.Msg.ToId,
		AmountMinor: int64(amount),
		Note:        strings.TrimSpace(req.Msg.Note),
		CreatedBy:   middleware.GetUserID(ctx),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded", "trip_id", trip.ID, "payment_id", payment.ID)

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: paymentToAPI(payment)}), nil
}

// ListPayments returns the trip's recorded payments, oldest first.
func (s *TripService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	slog.Info("ListPayments request received", "trip_id", req.Msg.TripId)

	trip, err := authorizedTrip(ctx, s.store, req.Msg.TripId)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx, trip.ID)
	if err != nil {
		slog.Error("ListPayments failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToAPI(p)
	}

	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// checkParticipantNames requires non-empty names, unique ignoring case.
func checkParticipantNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			return &ledger.ValidationError{Kind: ledger.KindInvalidParticipant, Field: "participants", Msg: "participant name is required"}
		}
		if seen[key] {
			return &ledger.ValidationError{Kind: ledger.KindDuplicateParticipant, Field: "participants", Msg: "duplicate name " + n}
		}
		seen[key] = true
	}
	return nil
}
