package api

import "github.com/shopspring/decimal"

// Share is one participant's part of an expense.
type Share struct {
	ParticipantId string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Expense is a stored expense. PerPersonShare is derived on read.
type Expense struct {
	Id             string          `json:"id"`
	TripId         string          `json:"tripId"`
	Description    string          `json:"description"`
	Total          decimal.Decimal `json:"total"`
	Category       string          `json:"category"`
	SplitPolicy    string          `json:"splitPolicy"`
	Date           int64           `json:"date"`
	Payers         []Share         `json:"payers"`
	Debtors        []Share         `json:"debtors"`
	PerPersonShare decimal.Decimal `json:"perPersonShare"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
}

// ExpenseInput is the editable part of an expense.
//
// With the equal policy, debtor amounts may be left at zero and the server
// fills in the equal split. Amounts that are given must match it exactly.
type ExpenseInput struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
	Category    string          `json:"category,omitempty"`
	SplitPolicy string          `json:"splitPolicy"`
	Date        int64           `json:"date,omitempty"`
	Payers      []Share         `json:"payers"`
	Debtors     []Share         `json:"debtors"`
}

type PreviewSplitRequest struct {
	Total          decimal.Decimal `json:"total"`
	ParticipantIds []string        `json:"participantIds"`
	SplitPolicy    string          `json:"splitPolicy"`
	CustomAmounts  []Share         `json:"customAmounts,omitempty"`
}

type PreviewSplitResponse struct {
	Shares         []Share         `json:"shares"`
	PerPersonShare decimal.Decimal `json:"perPersonShare"`
}

type CreateExpenseRequest struct {
	TripId  string       `json:"tripId"`
	Expense ExpenseInput `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest replaces every editable field of an expense.
type UpdateExpenseRequest struct {
	ExpenseId string       `json:"expenseId"`
	Expense   ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	TripId string `json:"tripId"`
}

type ListExpensesResponse struct {
	Expenses   []*Expense      `json:"expenses"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}
