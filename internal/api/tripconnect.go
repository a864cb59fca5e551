package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// TripServiceName is the fully-qualified name of the TripService.
const TripServiceName = "tripledger.v1.TripService"

// Procedure paths for TripService. They appear in the URL, in
// connect.Spec.Procedure, and in the metrics and log labels.
const (
	TripServiceCreateTripProcedure        = "/tripledger.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure           = "/tripledger.v1.TripService/GetTrip"
	TripServiceListTripsProcedure         = "/tripledger.v1.TripService/ListTrips"
	TripServiceAddParticipantProcedure    = "/tripledger.v1.TripService/AddParticipant"
	TripServiceRemoveParticipantProcedure = "/tripledger.v1.TripService/RemoveParticipant"
	TripServiceGetBalancesProcedure       = "/tripledger.v1.TripService/GetBalances"
	TripServiceGetSettlementProcedure     = "/tripledger.v1.TripService/GetSettlement"
	TripServiceRecordPaymentProcedure     = "/tripledger.v1.TripService/RecordPayment"
	TripServiceListPaymentsProcedure      = "/tripledger.v1.TripService/ListPayments"
)

// TripServiceHandler is implemented by the server side of TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	createTrip := connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...)
	getTrip := connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...)
	listTrips := connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...)
	addParticipant := connect.NewUnaryHandler(TripServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	removeParticipant := connect.NewUnaryHandler(TripServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...)
	getBalances := connect.NewUnaryHandler(TripServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getSettlement := connect.NewUnaryHandler(TripServiceGetSettlementProcedure, svc.GetSettlement, opts...)
	recordPayment := connect.NewUnaryHandler(TripServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPayments := connect.NewUnaryHandler(TripServiceListPaymentsProcedure, svc.ListPayments, opts...)

	return "/" + TripServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TripServiceCreateTripProcedure:
			createTrip.ServeHTTP(w, r)
		case TripServiceGetTripProcedure:
			getTrip.ServeHTTP(w, r)
		case TripServiceListTripsProcedure:
			listTrips.ServeHTTP(w, r)
		case TripServiceAddParticipantProcedure:
			addParticipant.ServeHTTP(w, r)
		case TripServiceRemoveParticipantProcedure:
			removeParticipant.ServeHTTP(w, r)
		case TripServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case TripServiceGetSettlementProcedure:
			getSettlement.ServeHTTP(w, r)
		case TripServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case TripServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TripServiceClient is a client for TripService.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
}

// NewTripServiceClient constructs a TripService client. baseURL is the
// server root, e.g. http://localhost:8080.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &tripServiceClient{
		createTrip:        connect.NewClient[CreateTripRequest, CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:           connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:         connect.NewClient[ListTripsRequest, ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+TripServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+TripServiceRemoveParticipantProcedure, opts...),
		getBalances:       connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+TripServiceGetBalancesProcedure, opts...),
		getSettlement:     connect.NewClient[GetSettlementRequest, GetSettlementResponse](httpClient, baseURL+TripServiceGetSettlementProcedure, opts...),
		recordPayment:     connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+TripServiceRecordPaymentProcedure, opts...),
		listPayments:      connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL+TripServiceListPaymentsProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip        *connect.Client[CreateTripRequest, CreateTripResponse]
	getTrip           *connect.Client[GetTripRequest, GetTripResponse]
	listTrips         *connect.Client[ListTripsRequest, ListTripsResponse]
	addParticipant    *connect.Client[AddParticipantRequest, AddParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	getBalances       *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getSettlement     *connect.Client[GetSettlementRequest, GetSettlementResponse]
	recordPayment     *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listPayments      *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *tripServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetSettlement(ctx context.Context, req *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *tripServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}
