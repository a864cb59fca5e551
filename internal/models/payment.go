package models

// Payment records money handed from one participant to another to settle up.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// TripID is the trip this payment belongs to.
	TripID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received the money (creditor being paid).
	ToID string

	// AmountMinor is the payment amount in minor units.
	AmountMinor int64

	// Note is an optional description for the payment.
	Note string

	// CreatedBy is the user ID who recorded this payment.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
