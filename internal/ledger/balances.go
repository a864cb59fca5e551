package ledger

import "sort"

// Balance is one participant's position across a trip's expenses.
type Balance struct {
	ParticipantID ParticipantID
	Paid          Amount // total paid across all expenses
	Owed          Amount // total of this participant's debtor shares
	Net           Amount // Paid - Owed. Positive = is owed money, negative = owes money
}

// Balances maps each participant to their balance. It is derived data and is
// never stored.
type Balances map[ParticipantID]Balance

// Payment is money handed from one participant to another to settle up.
type Payment struct {
	From   ParticipantID
	To     ParticipantID
	Amount Amount
}

// ComputeBalances folds every expense into one balance per participant.
//
// Every roster participant starts at zero. For each expense, each payer's
// amount is added and each debtor's amount subtracted. The computation is
// order-independent and holds no state between calls. Since each record's
// payers and debtors both sum to its total, the balances always sum to zero.
func ComputeBalances(participants []Participant, expenses []ExpenseRecord) Balances {
	balances := make(Balances, len(participants))
	for _, p := range participants {
		balances[p.ID] = Balance{ParticipantID: p.ID}
	}

	for _, expense := range expenses {
		for _, payer := range expense.payers {
			b := balances[payer.ParticipantID]
			b.ParticipantID = payer.ParticipantID
			b.Paid += payer.Amount
			balances[payer.ParticipantID] = b
		}
		for _, debtor := range expense.debtors {
			b := balances[debtor.ParticipantID]
			b.ParticipantID = debtor.ParticipantID
			b.Owed += debtor.Amount
			balances[debtor.ParticipantID] = b
		}
	}

	for id, b := range balances {
		b.Net = b.Paid - b.Owed
		balances[id] = b
	}
	return balances
}

// ValidatePayment checks a payment against the roster: a positive amount
// between two different roster participants.
func ValidatePayment(roster *Roster, p Payment) error {
	if p.Amount <= 0 {
		return invalid(KindNonPositiveTotal, "amount", "", p.Amount.String())
	}
	if p.Amount > MaxAmount {
		return invalid(KindInvalidAmount, "amount", "", "exceeds "+MaxAmount.String())
	}
	for _, id := range []ParticipantID{p.From, p.To} {
		if !roster.Contains(id) {
			return invalid(KindUnknownParticipant, "payment", id, "not on the trip roster")
		}
	}
	if p.From == p.To {
		return invalid(KindInvalidParticipant, "payment", p.From, "cannot pay yourself")
	}
	return nil
}

// ApplyPayments returns a new Balances with recorded payments folded in.
// The sender's net rises by the amount (they have paid their way) and the
// receiver's net falls by it. The input is not modified.
func ApplyPayments(balances Balances, payments []Payment) Balances {
	out := make(Balances, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, p := range payments {
		from := out[p.From]
		from.ParticipantID = p.From
		from.Paid += p.Amount
		from.Net += p.Amount
		out[p.From] = from

		to := out[p.To]
		to.ParticipantID = p.To
		to.Owed += p.Amount
		to.Net -= p.Amount
		out[p.To] = to
	}
	return out
}

// Sum returns the total of all net balances. It is zero for any balances
// computed from valid expenses and payments.
func (b Balances) Sum() Amount {
	var total Amount
	for _, bal := range b {
		total += bal.Net
	}
	return total
}

// Net returns just the net amounts keyed by participant.
func (b Balances) Net() map[ParticipantID]Amount {
	out := make(map[ParticipantID]Amount, len(b))
	for id, bal := range b {
		out[id] = bal.Net
	}
	return out
}

// Sorted returns the balances ordered by participant id ascending.
func (b Balances) Sorted() []Balance {
	out := make([]Balance, 0, len(b))
	for _, bal := range b {
		out = append(out, bal)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}
