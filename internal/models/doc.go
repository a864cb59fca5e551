// Package models defines the persisted shapes of trips, participants,
// expenses and payments.
//
// Amounts are stored as integer minor units (cents) in fields suffixed
// Minor. Conversion to ledger values happens in the service layer, which is
// also where every expense is validated before it is written.
//
// Relationships use ID strings rather than pointers: an Expense refers to
// participants by ID, a Participant refers to its Trip by ID.
package models
