package ledger

import (
	"time"
)

// Category is informational only; it never affects arithmetic.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryLodging   Category = "lodging"
	CategoryActivity  Category = "activity"
	CategoryShopping  Category = "shopping"
	CategoryOther     Category = "other"
)

// ParseCategory maps a wire value to a Category. Unknown or empty values
// fall back to CategoryOther.
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryFood, CategoryTransport, CategoryLodging, CategoryActivity, CategoryShopping:
		return c
	default:
		return CategoryOther
	}
}

// ExpenseInput is the unvalidated shape of an expense submission or edit.
type ExpenseInput struct {
	ID          string
	Description string
	Total       Amount
	Date        time.Time
	Category    Category
	Policy      SplitPolicy
	Payers      []Share
	Debtors     []Share
}

// ExpenseRecord is a validated, immutable expense. Construct it with
// NewExpense; an edit builds a new record rather than patching one.
type ExpenseRecord struct {
	id          string
	description string
	total       Amount
	date        time.Time
	category    Category
	policy      SplitPolicy
	payers      []Share
	debtors     []Share
}

// NewExpense validates in against the trip roster.
func NewExpense(roster *Roster, in ExpenseInput) (ExpenseRecord, error) {
	if in.Total <= 0 {
		return ExpenseRecord{}, invalid(KindNonPositiveTotal, "total", "", in.Total.String())
	}
	if in.Total > MaxAmount {
		return ExpenseRecord{}, invalid(KindInvalidAmount, "total", "", "exceeds "+MaxAmount.String())
	}
	if in.Policy != SplitEqual && in.Policy != SplitCustom {
		return ExpenseRecord{}, invalid(KindUnknownPolicy, "split_policy", "", string(in.Policy))
	}
	if len(in.Payers) == 0 {
		return ExpenseRecord{}, invalid(KindNoPayers, "payers", "", "at least one payer is required")
	}
	if len(in.Debtors) == 0 {
		return ExpenseRecord{}, invalid(KindNoDebtors, "debtors", "", "at least one debtor is required")
	}
	if err := checkShares(roster, "payers", KindDuplicatePayer, in.Payers); err != nil {
		return ExpenseRecord{}, err
	}
	if err := checkShares(roster, "debtors", KindDuplicateDebtor, in.Debtors); err != nil {
		return ExpenseRecord{}, err
	}

	if err := checkSum("payers", KindPayersSumMismatch, in.Payers, in.Total); err != nil {
		return ExpenseRecord{}, err
	}
	if err := checkSum("debtors", KindDebtorsSumMismatch, in.Debtors, in.Total); err != nil {
		return ExpenseRecord{}, err
	}
	debtors := cloneShares(in.Debtors)
	sortShares(debtors)
	if in.Policy == SplitEqual {
		if err := checkEqualSplit(in.Total, debtors); err != nil {
			return ExpenseRecord{}, err
		}
	}

	return ExpenseRecord{
		id:          in.ID,
		description: in.Description,
		total:       in.Total,
		date:        in.Date,
		category:    ParseCategory(string(in.Category)),
		policy:      in.Policy,
		payers:      cloneShares(in.Payers),
		debtors:     cloneShares(in.Debtors),
	}, nil
}

func checkShares(roster *Roster, field string, dupKind ErrorKind, shares []Share) error {
	seen := make(map[ParticipantID]bool, len(shares))
	for _, s := range shares {
		if !roster.Contains(s.ParticipantID) {
			return invalid(KindUnknownParticipant, field, s.ParticipantID, "not on the trip roster")
		}
		if seen[s.ParticipantID] {
			return invalid(dupKind, field, s.ParticipantID, "listed twice")
		}
		seen[s.ParticipantID] = true
		if s.Amount < 0 {
			return invalid(KindNegativeShare, field, s.ParticipantID, s.Amount.String())
		}
		if s.Amount > MaxAmount {
			return invalid(KindInvalidAmount, field, s.ParticipantID, "exceeds "+MaxAmount.String())
		}
	}
	return nil
}

// checkSum requires shares to add up to exactly total.
func checkSum(field string, kind ErrorKind, shares []Share, total Amount) error {
	sum, ok := sumShares(shares)
	if !ok {
		return invalid(KindInvalidAmount, field, "", "sum overflows")
	}
	if sum != total {
		return &ValidationError{Kind: kind, Field: field, Expected: total, Actual: sum}
	}
	return nil
}

// checkEqualSplit requires sorted debtors to match SplitEqually exactly.
func checkEqualSplit(total Amount, sorted []Share) error {
	ids := make([]ParticipantID, len(sorted))
	for i, s := range sorted {
		ids[i] = s.ParticipantID
	}
	want, err := SplitEqually(total, ids)
	if err != nil {
		return err
	}
	for i := range want {
		if want[i].Amount != sorted[i].Amount {
			return &ValidationError{
				Kind:          KindPolicyMismatch,
				Field:         "debtors",
				ParticipantID: want[i].ParticipantID,
				Expected:      want[i].Amount,
				Actual:        sorted[i].Amount,
				Msg:           "equal split expects " + want[i].Amount.String() + ", got " + sorted[i].Amount.String(),
			}
		}
	}
	return nil
}

func cloneShares(shares []Share) []Share {
	out := make([]Share, len(shares))
	copy(out, shares)
	return out
}

func (e ExpenseRecord) ID() string { return e.id }
func (e ExpenseRecord) Description() string { return e.description }
func (e ExpenseRecord) Total() Amount { return e.total }
func (e ExpenseRecord) Date() time.Time { return e.date }
func (e ExpenseRecord) Category() Category { return e.category }
func (e ExpenseRecord) Policy() SplitPolicy { return e.policy }
func (e ExpenseRecord) Payers() []Share { return cloneShares(e.payers) }
func (e ExpenseRecord) Debtors() []Share { return cloneShares(e.debtors) }
