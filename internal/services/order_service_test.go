package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

func newOrderFixture(t *testing.T, online bool) (*stubGateway, OrderService) {
	t.Helper()
	gateway := &stubGateway{}
	svc, err := NewOrderService(OrderServiceDeps{
		Square:         gateway,
		LocationID:     "loc_default",
		Currency:       "usd",
		Online:         func() bool { return online },
		OfflineMessage: "Online ordering is temporarily unavailable. Please try again later.",
		IDGenerator:    func() string { return "key_test" },
	})
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return gateway, svc
}

func TestOrderServiceStatus(t *testing.T) {
	_, online := newOrderFixture(t, true)
	if status := online.Status(); !status.Online || status.Message != "" {
		t.Fatalf("online status = %+v", status)
	}

	_, offline := newOrderFixture(t, false)
	status := offline.Status()
	if status.Online {
		t.Fatalf("offline store reported online")
	}
	if status.Message == "" {
		t.Fatalf("offline status missing user-facing message")
	}
}

func TestOrderServiceRejectsMutationsWhileOffline(t *testing.T) {
	gateway, svc := newOrderFixture(t, false)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, square.Order{LineItems: []square.OrderLineItem{{Name: "Burger", Quantity: "1"}}})
	var offline *StoreOfflineError
	if !errors.As(err, &offline) {
		t.Fatalf("expected StoreOfflineError, got %v", err)
	}
	if offline.Message == "" {
		t.Fatalf("offline error missing message")
	}

	if _, err := svc.ProcessPayment(ctx, PaymentRequest{Token: "tok", Amount: 10.0}); !errors.As(err, &offline) {
		t.Fatalf("expected StoreOfflineError for payment, got %v", err)
	}
	if len(gateway.orderReqs)+len(gateway.paymentReqs) != 0 {
		t.Fatalf("offline mutation reached upstream")
	}
}

func TestOrderServiceCreateOrder(t *testing.T) {
	gateway, svc := newOrderFixture(t, true)

	order := square.Order{LineItems: []square.OrderLineItem{{Name: "Burger", Quantity: "2"}}}
	if _, err := svc.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if len(gateway.orderReqs) != 1 {
		t.Fatalf("order calls = %d, want 1", len(gateway.orderReqs))
	}
	sent := gateway.orderReqs[0]
	if sent.IdempotencyKey != "key_test" {
		t.Fatalf("idempotency key = %s", sent.IdempotencyKey)
	}
	if sent.Order.LocationID != "loc_default" {
		t.Fatalf("default location not applied: %s", sent.Order.LocationID)
	}
}

func TestOrderServiceCreateOrderRequiresLineItems(t *testing.T) {
	_, svc := newOrderFixture(t, true)

	_, err := svc.CreateOrder(context.Background(), square.Order{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestOrderServiceProcessPaymentValidation(t *testing.T) {
	gateway, svc := newOrderFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   PaymentRequest
		field string
	}{
		{"missing token", PaymentRequest{Amount: 10.0}, "token"},
		{"missing amount", PaymentRequest{Token: "tok"}, "amount"},
		{"non numeric amount", PaymentRequest{Token: "tok", Amount: "ten dollars"}, "amount"},
		{"negative amount", PaymentRequest{Token: "tok", Amount: -4.0}, "amount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ProcessPayment(ctx, tc.req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := validation.Fields[tc.field]; !ok {
				t.Fatalf("expected failure on %s, got %v", tc.field, validation.Fields)
			}
		})
	}
	if len(gateway.paymentReqs) != 0 {
		t.Fatalf("invalid payment reached upstream")
	}
}

func TestOrderServiceProcessPayment(t *testing.T) {
	gateway, svc := newOrderFixture(t, true)

	if _, err := svc.ProcessPayment(context.Background(), PaymentRequest{
		Token:   "cnon:card-nonce",
		Amount:  12.345,
		OrderID: "ord_1",
	}); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	if len(gateway.paymentReqs) != 1 {
		t.Fatalf("payment calls = %d, want 1", len(gateway.paymentReqs))
	}
	sent := gateway.paymentReqs[0]
	if sent.SourceID != "cnon:card-nonce" {
		t.Fatalf("source id = %s", sent.SourceID)
	}
	if sent.AmountMoney.Amount != 1235 {
		t.Fatalf("amount = %d minor units, want 1235", sent.AmountMoney.Amount)
	}
	if sent.AmountMoney.Currency != "USD" {
		t.Fatalf("currency = %s", sent.AmountMoney.Currency)
	}
	if sent.OrderID != "ord_1" {
		t.Fatalf("order id = %s", sent.OrderID)
	}
	if sent.IdempotencyKey != "key_test" {
		t.Fatalf("idempotency key = %s", sent.IdempotencyKey)
	}
}

func TestOrderServiceProcessPaymentAcceptsNumericString(t *testing.T) {
	gateway, svc := newOrderFixture(t, true)

	if _, err := svc.ProcessPayment(context.Background(), PaymentRequest{Token: "tok", Amount: "10.50"}); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if gateway.paymentReqs[0].AmountMoney.Amount != 1050 {
		t.Fatalf("amount = %d, want 1050", gateway.paymentReqs[0].AmountMoney.Amount)
	}
}
