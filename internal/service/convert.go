package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
)

func rosterFromTrip(trip *models.Trip) (*ledger.Roster, error) {
	participants := make([]ledger.Participant, len(trip.Participants))
	for i, p := range trip.Participants {
		participants[i] = ledger.Participant{ID: ledger.ParticipantID(p.ID), Name: p.Name}
	}
	return ledger.NewRoster(participants)
}

func tripToAPI(trip *models.Trip) *api.Trip {
	participants := make([]api.Participant, len(trip.Participants))
	for i := range trip.Participants {
		participants[i] = *participantToAPI(&trip.Participants[i])
	}
	return &api.Trip{
		Id:           trip.ID,
		Name:         trip.Name,
		OwnerId:      trip.OwnerID,
		Currency:     trip.Currency,
		Participants: participants,
		CreatedAt:    trip.CreatedAt,
	}
}

func participantToAPI(p *models.Participant) *api.Participant {
	return &api.Participant{Id: p.ID, Name: p.Name, UserId: p.UserID}
}

// sharesFromAPI converts wire shares to minor units. Rounding to the minor
// unit happens here; the ledger then compares sums exactly.
func sharesFromAPI(field string, shares []api.Share) ([]ledger.Share, error) {
	out := make([]ledger.Share, len(shares))
	for i, s := range shares {
		amount, err := amountFromAPI(field, s.Amount)
		if err != nil {
			return nil, err
		}
		out[i] = ledger.Share{ParticipantID: ledger.ParticipantID(s.ParticipantId), Amount: amount}
	}
	return out, nil
}

func amountFromAPI(field string, d decimal.Decimal) (ledger.Amount, error) {
	amount, err := ledger.AmountFromDecimal(d)
	if err != nil {
		return 0, &ledger.ValidationError{Kind: ledger.KindInvalidAmount, Field: field, Msg: err.Error()}
	}
	return amount, nil
}

func sharesToAPI(shares []ledger.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, s := range shares {
		out[i] = api.Share{ParticipantId: string(s.ParticipantID), Amount: s.Amount.Decimal()}
	}
	return out
}

// expenseInputFromAPI builds the ledger input for a create or update.
// An equal-policy expense whose debtor amounts are all zero gets the equal
// split filled in; explicit amounts are left for NewExpense to verify.
func expenseInputFromAPI(id string, in api.ExpenseInput) (ledger.ExpenseInput, error) {
	policy, err := ledger.ParseSplitPolicy(in.SplitPolicy)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	total, err := amountFromAPI("total", in.Total)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	payers, err := sharesFromAPI("payers", in.Payers)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	debtors, err := sharesFromAPI("debtors", in.Debtors)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}

	if policy == ledger.SplitEqual && len(debtors) > 0 && allZero(debtors) {
		ids := make([]ledger.ParticipantID, len(debtors))
		for i, d := range debtors {
			ids[i] = d.ParticipantID
		}
		debtors, err = ledger.SplitEqually(total, ids)
		if err != nil {
			return ledger.ExpenseInput{}, err
		}
	}

	date := time.Now().UTC()
	if in.Date != 0 {
		date = time.Unix(in.Date, 0).UTC()
	}

	return ledger.ExpenseInput{
		ID:          id,
		Description: in.Description,
		Total:       total,
		Date:        date,
		Category:    ledger.ParseCategory(in.Category),
		Policy:      policy,
		Payers:      payers,
		Debtors:     debtors,
	}, nil
}

func allZero(shares []ledger.Share) bool {
	for _, s := range shares {
		if s.Amount != 0 {
			return false
		}
	}
	return true
}

func recordFromModel(roster *ledger.Roster, e *models.Expense) (ledger.ExpenseRecord, error) {
	return ledger.NewExpense(roster, ledger.ExpenseInput{
		ID:          e.ID,
		Description: e.Description,
		Total:       ledger.Amount(e.TotalMinor),
		Date:        time.Unix(e.Date, 0).UTC(),
		Category:    ledger.Category(e.Category),
		Policy:      ledger.SplitPolicy(e.SplitPolicy),
		Payers:      sharesFromModel(e.Payers),
		Debtors:     sharesFromModel(e.Debtors),
	})
}

func modelFromRecord(tripID string, rec ledger.ExpenseRecord) *models.Expense {
	return &models.Expense{
		ID:          rec.ID(),
		TripID:      tripID,
		Description: rec.Description(),
		TotalMinor:  int64(rec.Total()),
		Category:    string(rec.Category()),
		SplitPolicy: string(rec.Policy()),
		Date:        rec.Date().Unix(),
		Payers:      sharesToModel(rec.Payers()),
		Debtors:     sharesToModel(rec.Debtors()),
	}
}

func sharesFromModel(shares []models.Share) []ledger.Share {
	out := make([]ledger.Share, len(shares))
	for i, s := range shares {
		out[i] = ledger.Share{ParticipantID: ledger.ParticipantID(s.ParticipantID), Amount: ledger.Amount(s.AmountMinor)}
	}
	return out
}

func sharesToModel(shares []ledger.Share) []models.Share {
	out := make([]models.Share, len(shares))
	for i, s := range shares {
		out[i] = models.Share{ParticipantID: string(s.ParticipantID), AmountMinor: int64(s.Amount)}
	}
	return out
}

func sharesModelToAPI(shares []models.Share) []api.Share {
	return sharesToAPI(sharesFromModel(shares))
}

func expenseToAPI(e *models.Expense) *api.Expense {
	total := ledger.Amount(e.TotalMinor)
	return &api.Expense{
		Id:             e.ID,
		TripId:         e.TripID,
		Description:    e.Description,
		Total:          total.Decimal(),
		Category:       e.Category,
		SplitPolicy:    e.SplitPolicy,
		Date:           e.Date,
		Payers:         sharesModelToAPI(e.Payers),
		Debtors:        sharesModelToAPI(e.Debtors),
		PerPersonShare: ledger.PerPersonShare(total, len(e.Debtors)).Decimal(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func paymentFromModel(p *models.Payment) ledger.Payment {
	return ledger.Payment{
		From:   ledger.ParticipantID(p.FromID),
		To:     ledger.ParticipantID(p.ToID),
		Amount: ledger.Amount(p.AmountMinor),
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:        p.ID,
		TripId:    p.TripID,
		FromId:    p.FromID,
		ToId:      p.ToID,
		Amount:    ledger.Amount(p.AmountMinor).Decimal(),
		Note:      p.Note,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}
