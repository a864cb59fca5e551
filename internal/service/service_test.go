package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
)

const testSecret = "service-test-secret-value"

type testServer struct {
	url        string
	jwtManager *auth.JWTManager
}

// setupTestServer serves both services behind the auth interceptor over a
// temp-file database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "tripledger-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.RequireAuth(jwtManager))

	tripPath, tripHandler := api.NewTripServiceHandler(NewTripService(store), interceptors)
	expensePath, expenseHandler := api.NewExpenseServiceHandler(NewExpenseService(store), interceptors)

	mux := http.NewServeMux()
	mux.Handle(tripPath, tripHandler)
	mux.Handle(expensePath, expenseHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{url: server.URL, jwtManager: jwtManager}
}

// clientsFor returns clients that call the server as userID. An empty
// userID sends no token at all.
func (s *testServer) clientsFor(t *testing.T, userID string) (api.TripServiceClient, api.ExpenseServiceClient) {
	t.Helper()

	var opts []connect.ClientOption
	if userID != "" {
		token, err := s.jwtManager.Generate(userID, userID+"@example.com")
		if err != nil {
			t.Fatalf("failed to mint token: %v", err)
		}
		opts = append(opts, connect.WithInterceptors(middleware.BearerToken(token)))
	}

	return api.NewTripServiceClient(http.DefaultClient, s.url, opts...),
		api.NewExpenseServiceClient(http.DefaultClient, s.url, opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func assertAmount(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", what, want, got.String())
	}
}
