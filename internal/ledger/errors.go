package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrSplitMismatch = errors.New("split amounts do not match total")
)

// ErrorKind identifies which invariant a ValidationError reports.
type ErrorKind string

const (
	KindNonPositiveTotal     ErrorKind = "non_positive_total"
	KindNoPayers             ErrorKind = "no_payers"
	KindNoDebtors            ErrorKind = "no_debtors"
	KindEmptySubset          ErrorKind = "empty_subset"
	KindUnknownParticipant   ErrorKind = "unknown_participant"
	KindDuplicatePayer       ErrorKind = "duplicate_payer"
	KindDuplicateDebtor      ErrorKind = "duplicate_debtor"
	KindDuplicateParticipant ErrorKind = "duplicate_participant"
	KindInvalidParticipant   ErrorKind = "invalid_participant"
	KindInvalidAmount        ErrorKind = "invalid_amount"
	KindNegativeShare        ErrorKind = "negative_share"
	KindMissingCustomAmount  ErrorKind = "missing_custom_amount"
	KindPayersSumMismatch    ErrorKind = "payers_sum_mismatch"
	KindDebtorsSumMismatch   ErrorKind = "debtors_sum_mismatch"
	KindUnknownPolicy        ErrorKind = "unknown_policy"
	KindPolicyMismatch       ErrorKind = "policy_mismatch"
)

// ValidationError reports a malformed expense or split request.
// Expected and Actual are set for sum mismatches; ParticipantID is set when a
// single participant reference is at fault.
type ValidationError struct {
	Kind          ErrorKind
	Field         string
	ParticipantID ParticipantID
	Expected      Amount
	Actual        Amount
	Msg           string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindPayersSumMismatch, KindDebtorsSumMismatch:
		return fmt.Sprintf("%s sum %s, expected %s", e.Field, e.Actual, e.Expected)
	}
	base := fmt.Sprintf("invalid %s: %s", e.Field, e.Kind)
	if e.ParticipantID != "" {
		base += fmt.Sprintf(" (participant=%s)", e.ParticipantID)
	}
	if e.Msg != "" {
		base += ": " + e.Msg
	}
	return base
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SplitMismatchError reports custom split amounts that do not reconcile to
// the expense total.
type SplitMismatchError struct {
	Total Amount
	Sum   Amount
}

// Discrepancy is the signed difference Sum - Total.
func (e *SplitMismatchError) Discrepancy() Amount {
	return e.Sum - e.Total
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("custom split sums to %s, expected %s (off by %s)", e.Sum, e.Total, e.Discrepancy())
}

func (e *SplitMismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

func invalid(kind ErrorKind, field string, id ParticipantID, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, ParticipantID: id, Msg: msg}
}
