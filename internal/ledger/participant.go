package ledger

import (
	"sort"
	"strings"
)

// ParticipantID is the opaque identity token of a trip participant.
type ParticipantID string

// Participant is one member of a trip's roster.
type Participant struct {
	ID   ParticipantID
	Name string
}

// Share assigns an amount to one participant, as a payer or as a debtor.
type Share struct {
	ParticipantID ParticipantID
	Amount        Amount
}

// Roster is a trip's participant set. Ids and display names are unique.
type Roster struct {
	participants []Participant
	byID         map[ParticipantID]Participant
}

// NewRoster validates and indexes a participant list.
func NewRoster(participants []Participant) (*Roster, error) {
	r := &Roster{
		participants: make([]Participant, 0, len(participants)),
		byID:         make(map[ParticipantID]Participant, len(participants)),
	}
	names := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			return nil, invalid(KindInvalidParticipant, "participants", p.ID, "id and name are required")
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, invalid(KindDuplicateParticipant, "participants", p.ID, "duplicate id")
		}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if names[key] {
			return nil, invalid(KindDuplicateParticipant, "participants", p.ID, "duplicate name "+p.Name)
		}
		names[key] = true
		r.byID[p.ID] = p
		r.participants = append(r.participants, p)
	}
	return r, nil
}

// Contains reports whether id belongs to the roster.
func (r *Roster) Contains(id ParticipantID) bool {
	_, ok := r.byID[id]
	return ok
}

// Get returns the participant with the given id.
func (r *Roster) Get(id ParticipantID) (Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Participants returns a copy of the roster in insertion order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.participants)
}

func sortShares(shares []Share) {
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].ParticipantID < shares[j].ParticipantID
	})
}

// sumShares adds the share amounts, reporting false on int64 overflow.
func sumShares(shares []Share) (Amount, bool) {
	var total Amount
	for _, s := range shares {
		var ok bool
		if total, ok = addAmount(total, s.Amount); !ok {
			return 0, false
		}
	}
	return total, true
}
