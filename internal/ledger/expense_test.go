package ledger

import (
	"errors"
	"math"
	"testing"
	"time"
)

func testRoster(t *testing.T, names ...string) *Roster {
	t.Helper()
	participants := make([]Participant, len(names))
	for i, n := range names {
		participants[i] = Participant{ID: ParticipantID(n), Name: "Name " + n}
	}
	r, err := NewRoster(participants)
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}
	return r
}

func TestNewRoster(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		wantErr      bool
	}{
		{"valid", []Participant{{"a", "Alice"}, {"b", "Bob"}}, false},
		{"empty roster", nil, false},
		{"duplicate id", []Participant{{"a", "Alice"}, {"a", "Bob"}}, true},
		{"duplicate name ignores case", []Participant{{"a", "Alice"}, {"b", "alice"}}, true},
		{"missing id", []Participant{{"", "Alice"}}, true},
		{"blank name", []Participant{{"a", "  "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRoster(tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRoster() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Len() != len(tt.participants) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.participants))
			}
		})
	}
}

func TestNewExpense_Valid(t *testing.T) {
	roster := testRoster(t, "A", "B", "C")
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	rec, err := NewExpense(roster, ExpenseInput{
		ID:          "exp-1",
		Description: "Dinner",
		Total:       9000,
		Date:        date,
		Category:    CategoryFood,
		Policy:      SplitEqual,
		Payers:      []Share{{"A", 9000}},
		Debtors:     []Share{{"C", 3000}, {"A", 3000}, {"B", 3000}},
	})
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}

	if rec.ID() != "exp-1" || rec.Total() != 9000 || !rec.Date().Equal(date) {
		t.Errorf("unexpected record fields: %+v", rec)
	}
	if rec.Category() != CategoryFood || rec.Policy() != SplitEqual {
		t.Errorf("category/policy = %s/%s", rec.Category(), rec.Policy())
	}

	// Accessors hand out copies.
	payers := rec.Payers()
	payers[0].Amount = 1
	if rec.Payers()[0].Amount != 9000 {
		t.Error("mutating Payers() result changed the record")
	}
}

func TestNewExpense_Rejects(t *testing.T) {
	roster := testRoster(t, "A", "B", "C")
	base := func() ExpenseInput {
		return ExpenseInput{
			Total:   10000,
			Policy:  SplitCustom,
			Payers:  []Share{{"A", 10000}},
			Debtors: []Share{{"A", 5000}, {"B", 5000}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*ExpenseInput)
		kind   ErrorKind
	}{
		{"zero total", func(in *ExpenseInput) { in.Total = 0 }, KindNonPositiveTotal},
		{"negative total", func(in *ExpenseInput) { in.Total = -5 }, KindNonPositiveTotal},
		{"no payers", func(in *ExpenseInput) { in.Payers = nil }, KindNoPayers},
		{"no debtors", func(in *ExpenseInput) { in.Debtors = nil }, KindNoDebtors},
		{"unknown payer", func(in *ExpenseInput) { in.Payers = []Share{{"Z", 10000}} }, KindUnknownParticipant},
		{"unknown debtor", func(in *ExpenseInput) { in.Debtors = []Share{{"A", 5000}, {"Z", 5000}} }, KindUnknownParticipant},
		{"duplicate payer", func(in *ExpenseInput) { in.Payers = []Share{{"A", 5000}, {"A", 5000}} }, KindDuplicatePayer},
		{"duplicate debtor", func(in *ExpenseInput) { in.Debtors = []Share{{"B", 5000}, {"B", 5000}} }, KindDuplicateDebtor},
		{"negative debtor", func(in *ExpenseInput) { in.Debtors = []Share{{"A", 11000}, {"B", -1000}} }, KindNegativeShare},
		{"payers short", func(in *ExpenseInput) { in.Payers = []Share{{"A", 5000}, {"B", 4000}} }, KindPayersSumMismatch},
		{"debtors over", func(in *ExpenseInput) { in.Debtors = []Share{{"A", 5000}, {"B", 5001}} }, KindDebtorsSumMismatch},
		{"unknown policy", func(in *ExpenseInput) { in.Policy = "shares" }, KindUnknownPolicy},
		{"total above max", func(in *ExpenseInput) { in.Total = MaxAmount + 1 }, KindInvalidAmount},
		{"payer above max", func(in *ExpenseInput) {
			in.Payers = []Share{{"A", MaxAmount + 1}, {"B", 10000 - MaxAmount - 1}}
		}, KindInvalidAmount},
		{"payer amounts that wrap to the total", func(in *ExpenseInput) {
			in.Total = 5
			in.Payers = []Share{{"A", math.MaxInt64}, {"B", math.MaxInt64}, {"C", 7}}
			in.Debtors = []Share{{"C", 5}}
		}, KindInvalidAmount},
		{"equal policy with uneven debtors", func(in *ExpenseInput) {
			in.Policy = SplitEqual
			in.Debtors = []Share{{"A", 6000}, {"B", 4000}}
		}, KindPolicyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			_, err := NewExpense(roster, in)
			if !IsKind(err, tt.kind) {
				t.Errorf("NewExpense() error = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestNewExpense_PayersSumMessage(t *testing.T) {
	roster := testRoster(t, "A", "B")
	_, err := NewExpense(roster, ExpenseInput{
		Total:   10000,
		Policy:  SplitCustom,
		Payers:  []Share{{"A", 5000}, {"B", 4000}},
		Debtors: []Share{{"A", 5000}, {"B", 5000}},
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Expected != 10000 || ve.Actual != 9000 {
		t.Errorf("Expected/Actual = %d/%d, want 10000/9000", ve.Expected, ve.Actual)
	}
	if got, want := err.Error(), "payers sum 90.00, expected 100.00"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewExpense_EqualPolicyAcceptsCalculatedSplit(t *testing.T) {
	roster := testRoster(t, "A", "B", "C")
	debtors, err := SplitEqually(10000, ids("B", "C", "A"))
	if err != nil {
		t.Fatal(err)
	}
	// Order of the submitted debtors does not matter.
	debtors[0], debtors[2] = debtors[2], debtors[0]

	if _, err := NewExpense(roster, ExpenseInput{
		Total:   10000,
		Policy:  SplitEqual,
		Payers:  []Share{{"B", 2500}, {"C", 7500}},
		Debtors: debtors,
	}); err != nil {
		t.Errorf("NewExpense() error = %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory("lodging"); got != CategoryLodging {
		t.Errorf("ParseCategory(lodging) = %s", got)
	}
	if got := ParseCategory("souvenirs"); got != CategoryOther {
		t.Errorf("ParseCategory(souvenirs) = %s, want other", got)
	}
}
