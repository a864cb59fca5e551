// Package snapshot reads trip snapshots from YAML files and turns them into
// validated ledger values, for offline use by the CLI.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/tripledger/internal/ledger"
)

const dateLayout = "2006-01-02"

// Trip is a validated snapshot, ready for the ledger engine.
type Trip struct {
	Name     string
	Currency string
	Roster   *ledger.Roster
	Expenses []ledger.ExpenseRecord
	Payments []ledger.Payment
}

// ExpenseError ties a validation failure to its position in the file.
type ExpenseError struct {
	Index int
	ID    string
	Err   error
}

func (e *ExpenseError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("expenses[%d] (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("expenses[%d]: %v", e.Index, e.Err)
}

func (e *ExpenseError) Unwrap() error { return e.Err }

// LoadFile reads and validates the snapshot at path.
func LoadFile(path string) (*Trip, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	trip, err := Load(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trip, nil
}

// Load decodes a snapshot and validates every expense and payment. All
// invalid entries are reported together, joined with errors.Join.
func Load(r io.Reader) (*Trip, error) {
	var dto YAMLTrip
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return Map(dto)
}

// Map validates a decoded snapshot.
func Map(dto YAMLTrip) (*Trip, error) {
	participants := make([]ledger.Participant, len(dto.Participants))
	for i, p := range dto.Participants {
		participants[i] = ledger.Participant{ID: ledger.ParticipantID(strings.TrimSpace(p.ID)), Name: p.Name}
	}
	roster, err := ledger.NewRoster(participants)
	if err != nil {
		return nil, err
	}

	trip := &Trip{
		Name:     dto.Name,
		Currency: dto.Currency,
		Roster:   roster,
		Expenses: make([]ledger.ExpenseRecord, 0, len(dto.Expenses)),
		Payments: make([]ledger.Payment, 0, len(dto.Payments)),
	}

	var errs []error
	for i, e := range dto.Expenses {
		rec, err := mapExpense(roster, e)
		if err != nil {
			errs = append(errs, &ExpenseError{Index: i, ID: e.ID, Err: err})
			continue
		}
		trip.Expenses = append(trip.Expenses, rec)
	}
	for i, p := range dto.Payments {
		payment, err := mapPayment(roster, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("payments[%d]: %w", i, err))
			continue
		}
		trip.Payments = append(trip.Payments, payment)
	}

	if len(errs) > 0 {
		return trip, errors.Join(errs...)
	}
	return trip, nil
}

func mapExpense(roster *ledger.Roster, e YAMLExpense) (ledger.ExpenseRecord, error) {
	policy, err := ledger.ParseSplitPolicy(strings.TrimSpace(e.Split))
	if err != nil {
		return ledger.ExpenseRecord{}, err
	}

	var date time.Time
	if e.Date != "" {
		date, err = time.Parse(dateLayout, e.Date)
		if err != nil {
			return ledger.ExpenseRecord{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", e.Date)
		}
	}

	total := ledger.Amount(e.Total)
	payers := mapShares(e.Payers)
	debtors := mapShares(e.Debtors)
	if policy == ledger.SplitEqual && len(e.Debtors) > 0 && amountsOmitted(e.Debtors) {
		ids := make([]ledger.ParticipantID, len(debtors))
		for i, d := range debtors {
			ids[i] = d.ParticipantID
		}
		if debtors, err = ledger.SplitEqually(total, ids); err != nil {
			return ledger.ExpenseRecord{}, err
		}
	}

	return ledger.NewExpense(roster, ledger.ExpenseInput{
		ID:          e.ID,
		Description: e.Description,
		Total:       total,
		Date:        date,
		Category:    ledger.ParseCategory(e.Category),
		Policy:      policy,
		Payers:      payers,
		Debtors:     debtors,
	})
}

func mapShares(in []YAMLShare) []ledger.Share {
	out := make([]ledger.Share, len(in))
	for i, s := range in {
		out[i].ParticipantID = ledger.ParticipantID(s.Participant)
		if s.Amount != nil {
			out[i].Amount = ledger.Amount(*s.Amount)
		}
	}
	return out
}

func amountsOmitted(shares []YAMLShare) bool {
	for _, s := range shares {
		if s.Amount != nil {
			return false
		}
	}
	return true
}

func mapPayment(roster *ledger.Roster, p YAMLPayment) (ledger.Payment, error) {
	payment := ledger.Payment{
		From:   ledger.ParticipantID(p.From),
		To:     ledger.ParticipantID(p.To),
		Amount: ledger.Amount(p.Amount),
	}
	if err := ledger.ValidatePayment(roster, payment); err != nil {
		return ledger.Payment{}, err
	}
	return payment, nil
}
