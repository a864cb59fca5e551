package ledger

import "container/heap"

// Transfer is one settlement step: From pays To the given amount.
// Transfers are recomputed on demand and never persisted.
type Transfer struct {
	From   ParticipantID
	To     ParticipantID
	Amount Amount
}

// ComputeSettlement turns net balances into a list of transfers that zeroes
// every balance.
//
// Greedy matching: the creditor with the largest balance is paid by the
// debtor with the largest debt, for the smaller of the two amounts; whoever
// is left with a remainder goes back into their queue. Ties go to the lower
// participant id. Each step settles at least one participant, so at most n-1
// transfers are produced for n participants with a nonzero balance.
//
// This is a heuristic. Finding the minimum number of transfers is NP-hard
// in general and some inputs have a shorter settlement than the one returned.
func ComputeSettlement(balances Balances) []Transfer {
	creditors := &positionHeap{}
	debtors := &positionHeap{}
	for id, b := range balances {
		switch {
		case b.Net > 0:
			*creditors = append(*creditors, position{id: id, amount: b.Net})
		case b.Net < 0:
			*debtors = append(*debtors, position{id: id, amount: -b.Net})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var transfers []Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(position)
		debtor := heap.Pop(debtors).(position)

		amount := min(creditor.amount, debtor.amount)
		transfers = append(transfers, Transfer{From: debtor.id, To: creditor.id, Amount: amount})

		if creditor.amount -= amount; creditor.amount > 0 {
			heap.Push(creditors, creditor)
		}
		if debtor.amount -= amount; debtor.amount > 0 {
			heap.Push(debtors, debtor)
		}
	}
	return transfers
}

type position struct {
	id     ParticipantID
	amount Amount // always positive
}

// positionHeap is a max-heap on amount, ties broken by id ascending.
type positionHeap []position

func (h positionHeap) Len() int { return len(h) }

func (h positionHeap) Less(i, j int) bool {
	if h[i].amount != h[j].amount {
		return h[i].amount > h[j].amount
	}
	return h[i].id < h[j].id
}

func (h positionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *positionHeap) Push(x any) { *h = append(*h, x.(position)) }

func (h *positionHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
