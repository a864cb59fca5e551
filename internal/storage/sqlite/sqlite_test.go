package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "tripledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestTrip(t *testing.T, store *SQLiteStore, names ...string) *models.Trip {
	t.Helper()
	trip := &models.Trip{Name: "Lisbon", OwnerID: "user-1"}
	for _, n := range names {
		trip.Participants = append(trip.Participants, models.Participant{Name: n})
	}
	if err := store.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates IDs and defaults", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob")

		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.Currency != "USD" {
			t.Errorf("Expected default currency USD, got %s", trip.Currency)
		}
		if trip.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		for _, p := range trip.Participants {
			if p.ID == "" || p.TripID != trip.ID {
				t.Errorf("Participant not populated: %+v", p)
			}
		}
	})

	t.Run("GetTrip retrieves roster in order", func(t *testing.T) {
		original := createTestTrip(t, store, "Charlie", "Diana", "Eve")

		retrieved, err := store.GetTrip(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if retrieved.Name != original.Name || retrieved.OwnerID != original.OwnerID {
			t.Errorf("Trip mismatch: got %+v", retrieved)
		}
		if len(retrieved.Participants) != 3 {
			t.Fatalf("Expected 3 participants, got %d", len(retrieved.Participants))
		}
		for i, p := range retrieved.Participants {
			if p.ID != original.Participants[i].ID || p.Name != original.Participants[i].Name {
				t.Errorf("Participant %d: got %+v, want %+v", i, p, original.Participants[i])
			}
		}
	})

	t.Run("GetTrip returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddParticipant rejects duplicate names case-insensitively", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice")

		err := store.AddParticipant(ctx, &models.Participant{TripID: trip.ID, Name: "alice"})
		if !errors.Is(err, storage.ErrDuplicateParticipant) {
			t.Errorf("Expected ErrDuplicateParticipant, got %v", err)
		}

		p := &models.Participant{TripID: trip.ID, Name: "Bob", UserID: "user-2"}
		if err := store.AddParticipant(ctx, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if p.ID == "" {
			t.Error("Expected participant ID to be generated")
		}
	})

	t.Run("AddParticipant to unknown trip", func(t *testing.T) {
		err := store.AddParticipant(ctx, &models.Participant{TripID: "missing", Name: "Zed"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListTripsForUser includes owned and linked trips", func(t *testing.T) {
		owned := &models.Trip{Name: "Owned", OwnerID: "lister"}
		if err := store.CreateTrip(ctx, owned); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		linked := &models.Trip{
			Name:         "Linked",
			OwnerID:      "someone-else",
			Participants: []models.Participant{{Name: "Lister", UserID: "lister"}},
		}
		if err := store.CreateTrip(ctx, linked); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		createTestTrip(t, store, "Unrelated")

		trips, err := store.ListTripsForUser(ctx, "lister")
		if err != nil {
			t.Fatalf("ListTripsForUser failed: %v", err)
		}
		if len(trips) != 2 {
			t.Fatalf("Expected 2 trips, got %d", len(trips))
		}
		seen := map[string]bool{}
		for _, tr := range trips {
			seen[tr.ID] = true
		}
		if !seen[owned.ID] || !seen[linked.ID] {
			t.Errorf("Expected owned and linked trips, got %v", seen)
		}
	})

	t.Run("Expense roundtrip preserves split order", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob", "Carol")
		a, b, c := trip.Participants[0].ID, trip.Participants[1].ID, trip.Participants[2].ID

		expense := &models.Expense{
			TripID:      trip.ID,
			Description: "Dinner",
			TotalMinor:  10000,
			Category:    "food",
			SplitPolicy: "custom",
			Date:        1767225600,
			Payers:      []models.Share{{ParticipantID: c, AmountMinor: 6000}, {ParticipantID: a, AmountMinor: 4000}},
			Debtors: []models.Share{
				{ParticipantID: b, AmountMinor: 5000},
				{ParticipantID: a, AmountMinor: 3000},
				{ParticipantID: c, AmountMinor: 2000},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" || expense.CreatedAt == 0 {
			t.Fatalf("Expected ID and CreatedAt to be set: %+v", expense)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.TotalMinor != 10000 || got.SplitPolicy != "custom" || got.Category != "food" {
			t.Errorf("Expense mismatch: %+v", got)
		}
		if len(got.Payers) != 2 || got.Payers[0].ParticipantID != c {
			t.Errorf("Payers mismatch: %+v", got.Payers)
		}
		if len(got.Debtors) != 3 || got.Debtors[0].ParticipantID != b || got.Debtors[2].AmountMinor != 2000 {
			t.Errorf("Debtors mismatch: %+v", got.Debtors)
		}
	})

	t.Run("ReplaceExpense rewrites splits", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob")
		a, b := trip.Participants[0].ID, trip.Participants[1].ID

		expense := &models.Expense{
			TripID:      trip.ID,
			Description: "Taxi",
			TotalMinor:  3000,
			Category:    "transport",
			SplitPolicy: "equal",
			Date:        1767225600,
			Payers:      []models.Share{{ParticipantID: a, AmountMinor: 3000}},
			Debtors:     []models.Share{{ParticipantID: a, AmountMinor: 1500}, {ParticipantID: b, AmountMinor: 1500}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		updated := &models.Expense{
			ID:          expense.ID,
			Description: "Taxi to airport",
			TotalMinor:  4000,
			Category:    "transport",
			SplitPolicy: "custom",
			Date:        1767225600,
			Payers:      []models.Share{{ParticipantID: b, AmountMinor: 4000}},
			Debtors:     []models.Share{{ParticipantID: a, AmountMinor: 4000}},
		}
		if err := store.ReplaceExpense(ctx, updated); err != nil {
			t.Fatalf("ReplaceExpense failed: %v", err)
		}
		if updated.TripID != trip.ID || updated.CreatedAt != expense.CreatedAt {
			t.Errorf("Expected trip and creation time to be kept, got %+v", updated)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Description != "Taxi to airport" || got.TotalMinor != 4000 {
			t.Errorf("Expense not updated: %+v", got)
		}
		if len(got.Payers) != 1 || got.Payers[0].ParticipantID != b {
			t.Errorf("Payers not replaced: %+v", got.Payers)
		}
		if len(got.Debtors) != 1 || got.Debtors[0].AmountMinor != 4000 {
			t.Errorf("Debtors not replaced: %+v", got.Debtors)
		}

		err = store.ReplaceExpense(ctx, &models.Expense{ID: "missing", TotalMinor: 1, SplitPolicy: "equal"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RemoveParticipant refuses referenced participants", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob", "Carol")
		a, b, c := trip.Participants[0].ID, trip.Participants[1].ID, trip.Participants[2].ID

		expense := &models.Expense{
			TripID:      trip.ID,
			Description: "Groceries",
			TotalMinor:  2000,
			Category:    "food",
			SplitPolicy: "equal",
			Date:        1767225600,
			Payers:      []models.Share{{ParticipantID: a, AmountMinor: 2000}},
			Debtors:     []models.Share{{ParticipantID: a, AmountMinor: 1000}, {ParticipantID: b, AmountMinor: 1000}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.RemoveParticipant(ctx, trip.ID, b); !errors.Is(err, storage.ErrParticipantReferenced) {
			t.Errorf("Expected ErrParticipantReferenced, got %v", err)
		}
		if err := store.RemoveParticipant(ctx, trip.ID, c); err != nil {
			t.Errorf("RemoveParticipant failed: %v", err)
		}
		if err := store.RemoveParticipant(ctx, trip.ID, c); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second removal, got %v", err)
		}

		// Once the expense is gone the participant can leave.
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if err := store.RemoveParticipant(ctx, trip.ID, b); err != nil {
			t.Errorf("RemoveParticipant after delete failed: %v", err)
		}
	})

	t.Run("DeleteExpense returns ErrNotFound", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListExpenses orders by date", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob")
		a := trip.Participants[0].ID

		for i, date := range []int64{1767398400, 1767225600} {
			e := &models.Expense{
				TripID:      trip.ID,
				Description: []string{"later", "earlier"}[i],
				TotalMinor:  1000,
				Category:    "other",
				SplitPolicy: "equal",
				Date:        date,
				Payers:      []models.Share{{ParticipantID: a, AmountMinor: 1000}},
				Debtors:     []models.Share{{ParticipantID: a, AmountMinor: 1000}},
			}
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
		}

		expenses, err := store.ListExpenses(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0].Description != "earlier" {
			t.Errorf("Expected earlier expense first, got %s", expenses[0].Description)
		}
		if len(expenses[1].Payers) != 1 {
			t.Errorf("Expected splits to be loaded, got %+v", expenses[1])
		}
	})

	t.Run("Payments roundtrip", func(t *testing.T) {
		trip := createTestTrip(t, store, "Alice", "Bob")
		a, b := trip.Participants[0].ID, trip.Participants[1].ID

		p1 := &models.Payment{TripID: trip.ID, FromID: b, ToID: a, AmountMinor: 1500, Note: "cash", CreatedBy: "user-1", CreatedAt: 100}
		p2 := &models.Payment{TripID: trip.ID, FromID: a, ToID: b, AmountMinor: 200, CreatedBy: "user-1", CreatedAt: 200}
		for _, p := range []*models.Payment{p1, p2} {
			if err := store.CreatePayment(ctx, p); err != nil {
				t.Fatalf("CreatePayment failed: %v", err)
			}
			if p.ID == "" {
				t.Error("Expected payment ID to be generated")
			}
		}

		payments, err := store.ListPayments(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("Expected 2 payments, got %d", len(payments))
		}
		if payments[0].ID != p1.ID || payments[0].Note != "cash" {
			t.Errorf("First payment mismatch: %+v", payments[0])
		}
		if payments[1].Note != "" {
			t.Errorf("Expected empty note, got %q", payments[1].Note)
		}

		if err := store.RemoveParticipant(ctx, trip.ID, b); !errors.Is(err, storage.ErrParticipantReferenced) {
			t.Errorf("Expected ErrParticipantReferenced for payment party, got %v", err)
		}
	})
}

func TestLoadTripSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := createTestTrip(t, store, "Alice", "Bob")
	a, b := trip.Participants[0].ID, trip.Participants[1].ID
	expense := &models.Expense{
		TripID: trip.ID, TotalMinor: 1000, SplitPolicy: "custom", Date: 1,
		Payers:  []models.Share{{ParticipantID: a, AmountMinor: 1000}},
		Debtors: []models.Share{{ParticipantID: b, AmountMinor: 1000}},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if err := store.CreatePayment(ctx, &models.Payment{TripID: trip.ID, FromID: b, ToID: a, AmountMinor: 500, CreatedBy: "user-1"}); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	snap, err := store.LoadTripSnapshot(ctx, trip.ID)
	if err != nil {
		t.Fatalf("LoadTripSnapshot failed: %v", err)
	}
	if len(snap.Trip.Participants) != 2 || len(snap.Expenses) != 1 || len(snap.Payments) != 1 {
		t.Fatalf("Unexpected snapshot: %d participants, %d expenses, %d payments",
			len(snap.Trip.Participants), len(snap.Expenses), len(snap.Payments))
	}
	if len(snap.Expenses[0].Payers) != 1 || snap.Expenses[0].Payers[0].ParticipantID != a {
		t.Errorf("Expense splits not loaded: %+v", snap.Expenses[0])
	}

	if _, err := store.LoadTripSnapshot(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// Readers racing a writer that adds a participant and then books an
// expense for them must never see the expense without the participant.
func TestLoadTripSnapshotIsConsistentUnderWrites(t *testing.T) {
	store := newTestStore(t)
	trip := createTestTrip(t, store, "Alice")
	alice := trip.Participants[0].ID

	const rounds = 40
	done := make(chan struct{})
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(done)
		for i := 0; i < rounds; i++ {
			p := &models.Participant{TripID: trip.ID, Name: fmt.Sprintf("Guest %d", i)}
			if err := store.AddParticipant(ctx, p); err != nil {
				return fmt.Errorf("AddParticipant: %w", err)
			}
			e := &models.Expense{
				TripID: trip.ID, TotalMinor: 100, SplitPolicy: "custom", Date: int64(i),
				Payers:  []models.Share{{ParticipantID: alice, AmountMinor: 100}},
				Debtors: []models.Share{{ParticipantID: p.ID, AmountMinor: 100}},
			}
			if err := store.CreateExpense(ctx, e); err != nil {
				return fmt.Errorf("CreateExpense: %w", err)
			}
		}
		return nil
	})

	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}
				snap, err := store.LoadTripSnapshot(ctx, trip.ID)
				if err != nil {
					return fmt.Errorf("LoadTripSnapshot: %w", err)
				}
				if !rosterCovers(snap) {
					return errors.New("snapshot has an expense for a participant missing from its roster")
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func rosterCovers(snap *storage.TripSnapshot) bool {
	onRoster := make(map[string]bool, len(snap.Trip.Participants))
	for _, p := range snap.Trip.Participants {
		onRoster[p.ID] = true
	}
	for _, e := range snap.Expenses {
		for _, sh := range append(e.Payers, e.Debtors...) {
			if !onRoster[sh.ParticipantID] {
				return false
			}
		}
	}
	return true
}

func TestNewRunsMigrationsIdempotently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "trips.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("First New failed: %v", err)
	}
	trip := &models.Trip{Name: "Persisted", OwnerID: "u"}
	if err := first.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Reopening failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetTrip(context.Background(), trip.ID); err != nil {
		t.Errorf("Expected trip to survive reopen: %v", err)
	}
}
