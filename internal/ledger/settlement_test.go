package ledger

import (
	"math/rand/v2"
	"testing"
)

func netBalances(nets map[ParticipantID]Amount) Balances {
	b := make(Balances, len(nets))
	for id, net := range nets {
		b[id] = Balance{ParticipantID: id, Net: net}
	}
	return b
}

// applyTransfers replays transfers on the net amounts: the payer's net rises,
// the receiver's net falls.
func applyTransfers(nets map[ParticipantID]Amount, transfers []Transfer) map[ParticipantID]Amount {
	out := make(map[ParticipantID]Amount, len(nets))
	for id, n := range nets {
		out[id] = n
	}
	for _, tr := range transfers {
		out[tr.From] += tr.Amount
		out[tr.To] -= tr.Amount
	}
	return out
}

func nonZero(nets map[ParticipantID]Amount) int {
	n := 0
	for _, v := range nets {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestComputeSettlement_ThreeWayDinner(t *testing.T) {
	got := ComputeSettlement(netBalances(map[ParticipantID]Amount{"A": 6000, "B": -3000, "C": -3000}))
	want := []Transfer{
		{From: "B", To: "A", Amount: 3000},
		{From: "C", To: "A", Amount: 3000},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transfers %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transfer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComputeSettlement_LargestFirst(t *testing.T) {
	got := ComputeSettlement(netBalances(map[ParticipantID]Amount{
		"a": 1000, "b": 4000, "c": -2500, "d": -2500,
	}))
	want := []Transfer{
		{From: "c", To: "b", Amount: 2500},
		{From: "d", To: "b", Amount: 1500},
		{From: "d", To: "a", Amount: 1000},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transfer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComputeSettlement_Empty(t *testing.T) {
	if got := ComputeSettlement(nil); len(got) != 0 {
		t.Errorf("nil balances produced %+v", got)
	}
	if got := ComputeSettlement(netBalances(map[ParticipantID]Amount{"a": 0, "b": 0})); len(got) != 0 {
		t.Errorf("zero balances produced %+v", got)
	}
}

func TestComputeSettlement_Deterministic(t *testing.T) {
	nets := map[ParticipantID]Amount{"e": 700, "d": 700, "c": -700, "b": -700, "a": 0}
	first := ComputeSettlement(netBalances(nets))
	for i := 0; i < 20; i++ {
		again := ComputeSettlement(netBalances(nets))
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d transfers, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d transfer %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
	if first[0] != (Transfer{From: "b", To: "d", Amount: 700}) {
		t.Errorf("tie-break picked %+v, want b -> d", first[0])
	}
}

func TestComputeSettlement_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	roster := testRoster(t, "p1", "p2", "p3", "p4", "p5", "p6", "p7")

	for round := 0; round < 200; round++ {
		expenses := randomExpenses(t, rng, roster, rng.IntN(20)+1)
		balances := ComputeBalances(roster.Participants(), expenses)
		nets := balances.Net()

		transfers := ComputeSettlement(balances)

		var positive, moved Amount
		for _, n := range nets {
			if n > 0 {
				positive += n
			}
		}
		for _, tr := range transfers {
			if tr.Amount <= 0 {
				t.Fatalf("round %d: non-positive transfer %+v", round, tr)
			}
			if tr.From == tr.To {
				t.Fatalf("round %d: self transfer %+v", round, tr)
			}
			moved += tr.Amount
		}
		if moved != positive {
			t.Fatalf("round %d: moved %d, want total credit %d", round, moved, positive)
		}

		if n := nonZero(nets); n > 0 && len(transfers) > n-1 {
			t.Fatalf("round %d: %d transfers for %d nonzero balances", round, len(transfers), n)
		}

		for id, left := range applyTransfers(nets, transfers) {
			if left != 0 {
				t.Fatalf("round %d: %s left with %d after settlement", round, id, left)
			}
		}
	}
}
