package api

import "github.com/shopspring/decimal"

// Participant is a roster member as seen on the wire.
type Participant struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	UserId string `json:"userId,omitempty"`
}

// Trip is a trip with its roster.
type Trip struct {
	Id           string        `json:"id"`
	Name         string        `json:"name"`
	OwnerId      string        `json:"ownerId"`
	Currency     string        `json:"currency"`
	Participants []Participant `json:"participants"`
	CreatedAt    int64         `json:"createdAt"`
}

// NewParticipant names a participant to add. UserId optionally links the
// participant to an authenticated user so they can see the trip.
type NewParticipant struct {
	Name   string `json:"name"`
	UserId string `json:"userId,omitempty"`
}

type CreateTripRequest struct {
	Name         string           `json:"name"`
	Currency     string           `json:"currency,omitempty"`
	Participants []NewParticipant `json:"participants"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripId string `json:"tripId"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type AddParticipantRequest struct {
	TripId string `json:"tripId"`
	Name   string `json:"name"`
	UserId string `json:"userId,omitempty"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	TripId        string `json:"tripId"`
	ParticipantId string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

// Balance is one participant's position in a trip.
// Net is positive when the group owes the participant.
type Balance struct {
	ParticipantId string          `json:"participantId"`
	Name          string          `json:"name"`
	Paid          decimal.Decimal `json:"paid"`
	Owed          decimal.Decimal `json:"owed"`
	Net           decimal.Decimal `json:"net"`
}

type GetBalancesRequest struct {
	TripId string `json:"tripId"`
}

type GetBalancesResponse struct {
	Balances   []Balance       `json:"balances"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// Transfer is one suggested settle-up step.
type Transfer struct {
	FromId   string          `json:"fromId"`
	FromName string          `json:"fromName"`
	ToId     string          `json:"toId"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

type GetSettlementRequest struct {
	TripId string `json:"tripId"`
}

type GetSettlementResponse struct {
	Transfers []Transfer `json:"transfers"`
}

// Payment is money already handed over between two participants.
type Payment struct {
	Id        string          `json:"id"`
	TripId    string          `json:"tripId"`
	FromId    string          `json:"fromId"`
	ToId      string          `json:"toId"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt int64           `json:"createdAt"`
}

type RecordPaymentRequest struct {
	TripId string          `json:"tripId"`
	FromId string          `json:"fromId"`
	ToId   string          `json:"toId"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	TripId string `json:"tripId"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
