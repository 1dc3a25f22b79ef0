package square

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lakeview-kitchen/ordering-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		AccessToken: "token-123",
		BaseURL:     server.URL,
		Version:     "2024-01-18",
	})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client, server
}

func TestClientSendsAuthAndVersionHeaders(t *testing.T) {
	var gotAuth, gotVersion, gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Square-Version")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"objects":[]}`))
	})

	_, err := client.SearchCatalog(context.Background(), []byte(`{"object_types":["ITEM"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotVersion != "2024-01-18" {
		t.Fatalf("unexpected version header %q", gotVersion)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
}

func TestClientUpstreamErrorDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"BAD_REQUEST","detail":"location_id is missing"}]}`))
	})

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		IdempotencyKey: "key-1",
		Order:          Order{LocationID: ""},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upstream.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", upstream.StatusCode)
	}
	if upstream.Detail != "location_id is missing" {
		t.Fatalf("unexpected detail %q", upstream.Detail)
	}
	if upstream.Code != "BAD_REQUEST" {
		t.Fatalf("unexpected code %q", upstream.Code)
	}
}

func TestClientUpstreamErrorFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := client.ListLocations(context.Background())
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message() != "Bad Gateway" {
		t.Fatalf("unexpected message %q", upstream.Message())
	}
}

func TestClientNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.SearchCatalog(context.Background(), []byte(`{"object_types":["DISCOUNT"]}`))
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !upstream.NotFound() {
		t.Fatal("expected NotFound to be true")
	}
}

func TestClientRequiresIdempotencyKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach upstream")
	})

	if _, err := client.CreateOrder(context.Background(), CreateOrderRequest{}); err == nil {
		t.Fatal("expected error for missing idempotency key")
	}
	if _, err := client.CreatePayment(context.Background(), CreatePaymentRequest{}); err == nil {
		t.Fatal("expected error for missing idempotency key")
	}
	if _, err := client.CreatePaymentLink(context.Background(), CreatePaymentLinkRequest{}); err == nil {
		t.Fatal("expected error for missing idempotency key")
	}
}

func TestClientCreatePaymentBody(t *testing.T) {
	var captured CreatePaymentRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment":{"id":"pay_1","status":"COMPLETED"}}`))
	})

	_, err := client.CreatePayment(context.Background(), CreatePaymentRequest{
		SourceID:       "cnon:token",
		IdempotencyKey: "attempt-1",
		AmountMoney:    domain.Money{Amount: 1450, Currency: "USD"},
		OrderID:        "order-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.SourceID != "cnon:token" || captured.AmountMoney.Amount != 1450 {
		t.Fatalf("unexpected captured body %+v", captured)
	}
	if captured.OrderID != "order-9" {
		t.Fatalf("expected order id forwarded, got %q", captured.OrderID)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{BaseURL: "https://x", Version: "v"}); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := NewClient(ClientConfig{AccessToken: "t", Version: "v"}); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := NewClient(ClientConfig{AccessToken: "t", BaseURL: "https://x"}); err == nil {
		t.Fatal("expected error for missing version")
	}
}
