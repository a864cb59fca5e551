// Package ledger is the trip expense engine: it splits expense totals among
// participants, validates expense records, folds expenses into net balances
// and resolves balances into settlement transfers.
//
// Everything here is pure and synchronous. Amounts are integer minor units
// (see Amount); decimals appear only when parsing or formatting. Callers pass
// a consistent snapshot of a trip's roster and expenses and get freshly
// computed results every time; nothing is cached between calls.
//
// Invalid input is rejected at construction time (NewRoster, NewExpense,
// CalculateSplit) with *ValidationError or *SplitMismatchError. Once a
// record exists it is trusted, so ComputeBalances and ComputeSettlement never
// fail.
package ledger
