package models

// Trip is a group trip whose participants share expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// OwnerID is the user ID of the caller who created the trip.
	OwnerID string

	// Currency is an informational ISO 4217 code. All amounts in a trip
	// share it; no conversion is performed.
	Currency string

	// Participants is the trip roster, ordered by creation time.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Participant is a member of a trip's roster.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// TripID is the trip this participant belongs to.
	TripID string

	// Name is the display name, unique within the trip.
	Name string

	// UserID links the participant to an authenticated user.
	// Empty for participants who were added by name only.
	UserID string

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// HasMember reports whether userID owns the trip or is linked to one of
// its participants.
func (t *Trip) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	if t.OwnerID == userID {
		return true
	}
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
