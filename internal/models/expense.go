package models

// Expense is one shared cost on a trip.
// Edits replace the whole record, splits included.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Description is a short human-readable label (e.g., "Dinner at Ramiro").
	Description string

	// TotalMinor is the expense total in minor units.
	TotalMinor int64

	// Category is informational (food, transport, lodging, activity, shopping, other).
	Category string

	// SplitPolicy is "equal" or "custom".
	SplitPolicy string

	// Date is the Unix timestamp of the day the expense was incurred.
	Date int64

	// Payers are the participants who paid and how much each paid.
	Payers []Share

	// Debtors are the participants the cost is split among and each one's share.
	Debtors []Share

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64
	UpdatedAt int64
}

// Share is one participant's part of an expense, as payer or debtor.
type Share struct {
	ParticipantID string
	AmountMinor   int64
}
