package ledger

import (
	"fmt"
	"sort"
)

// SplitPolicy selects how an expense total is divided among debtors.
type SplitPolicy string

const (
	SplitEqual  SplitPolicy = "equal"
	SplitCustom SplitPolicy = "custom"
)

// ParseSplitPolicy maps a wire value to a SplitPolicy.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch p := SplitPolicy(s); p {
	case SplitEqual, SplitCustom:
		return p, nil
	default:
		return "", invalid(KindUnknownPolicy, "split_policy", "", fmt.Sprintf("%q", s))
	}
}

// CalculateSplit turns a total, a participant subset and a policy into a
// debtor list that sums exactly to total. custom is only read for the custom
// policy. The result is ordered by participant id ascending.
func CalculateSplit(total Amount, subset []ParticipantID, policy SplitPolicy, custom map[ParticipantID]Amount) ([]Share, error) {
	switch policy {
	case SplitEqual:
		return SplitEqually(total, subset)
	case SplitCustom:
		return SplitCustomAmounts(total, subset, custom)
	default:
		return nil, invalid(KindUnknownPolicy, "split_policy", "", fmt.Sprintf("%q", policy))
	}
}

// SplitEqually divides total among subset. Participants are ordered by id
// ascending and the total%n leftover minor units go one each to the first
// participants in that order, so no two shares differ by more than one unit.
func SplitEqually(total Amount, subset []ParticipantID) ([]Share, error) {
	ids, err := checkSubset(total, subset)
	if err != nil {
		return nil, err
	}

	n := Amount(len(ids))
	base, remainder := total/n, total%n

	shares := make([]Share, len(ids))
	for i, id := range ids {
		amount := base
		if Amount(i) < remainder {
			amount++
		}
		shares[i] = Share{ParticipantID: id, Amount: amount}
	}
	return shares, nil
}

// SplitCustomAmounts uses caller-supplied amounts for each subset member.
// Amounts that do not sum exactly to total fail with *SplitMismatchError.
func SplitCustomAmounts(total Amount, subset []ParticipantID, custom map[ParticipantID]Amount) ([]Share, error) {
	ids, err := checkSubset(total, subset)
	if err != nil {
		return nil, err
	}

	members := make(map[ParticipantID]bool, len(ids))
	shares := make([]Share, len(ids))
	for i, id := range ids {
		members[id] = true
		amount, ok := custom[id]
		if !ok {
			return nil, invalid(KindMissingCustomAmount, "custom_amounts", id, "no amount for participant")
		}
		if amount < 0 {
			return nil, invalid(KindNegativeShare, "custom_amounts", id, amount.String())
		}
		if amount > MaxAmount {
			return nil, invalid(KindInvalidAmount, "custom_amounts", id, "exceeds "+MaxAmount.String())
		}
		shares[i] = Share{ParticipantID: id, Amount: amount}
	}
	for id := range custom {
		if !members[id] {
			return nil, invalid(KindUnknownParticipant, "custom_amounts", id, "participant not in split subset")
		}
	}

	sum, ok := sumShares(shares)
	if !ok {
		return nil, invalid(KindInvalidAmount, "custom_amounts", "", "sum overflows")
	}
	if sum != total {
		return nil, &SplitMismatchError{Total: total, Sum: sum}
	}
	return shares, nil
}

// checkSubset validates the common inputs and returns the subset sorted by id.
func checkSubset(total Amount, subset []ParticipantID) ([]ParticipantID, error) {
	if total <= 0 {
		return nil, invalid(KindNonPositiveTotal, "total", "", total.String())
	}
	if total > MaxAmount {
		return nil, invalid(KindInvalidAmount, "total", "", "exceeds "+MaxAmount.String())
	}
	if len(subset) == 0 {
		return nil, invalid(KindEmptySubset, "participants", "", "at least one participant is required")
	}

	ids := make([]ParticipantID, len(subset))
	copy(ids, subset)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, invalid(KindDuplicateDebtor, "participants", ids[i], "listed twice")
		}
	}
	return ids, nil
}
