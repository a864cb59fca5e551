package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService.
const ExpenseServiceName = "tripledger.v1.ExpenseService"

const (
	ExpenseServicePreviewSplitProcedure  = "/tripledger.v1.ExpenseService/PreviewSplit"
	ExpenseServiceCreateExpenseProcedure = "/tripledger.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure    = "/tripledger.v1.ExpenseService/GetExpense"
	ExpenseServiceUpdateExpenseProcedure = "/tripledger.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/tripledger.v1.ExpenseService/DeleteExpense"
	ExpenseServiceListExpensesProcedure  = "/tripledger.v1.ExpenseService/ListExpenses"
)

// ExpenseServiceHandler is implemented by the server side of ExpenseService.
type ExpenseServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation and returns it with its mount path.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	previewSplit := connect.NewUnaryHandler(ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts...)
	createExpense := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	getExpense := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	updateExpense := connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	deleteExpense := connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	listExpenses := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)

	return "/" + ExpenseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServicePreviewSplitProcedure:
			previewSplit.ServeHTTP(w, r)
		case ExpenseServiceCreateExpenseProcedure:
			createExpense.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpense.ServeHTTP(w, r)
		case ExpenseServiceUpdateExpenseProcedure:
			updateExpense.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ExpenseServiceClient is a client for ExpenseService.
type ExpenseServiceClient interface {
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
}

// NewExpenseServiceClient constructs an ExpenseService client.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &expenseServiceClient{
		previewSplit:  connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		createExpense: connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:    connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		updateExpense: connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense: connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
	}
}

type expenseServiceClient struct {
	previewSplit  *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	createExpense *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense    *connect.Client[GetExpenseRequest, GetExpenseResponse]
	updateExpense *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	listExpenses  *connect.Client[ListExpensesRequest, ListExpensesResponse]
}

func (c *expenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}
