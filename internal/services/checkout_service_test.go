package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
)

func newCheckoutFixture(t *testing.T) (*stubGateway, CheckoutService) {
	t.Helper()
	gateway := &stubGateway{}
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Square:      gateway,
		LocationID:  "loc_default",
		Currency:    "usd",
		IDGenerator: func() string { return "key_test" },
	})
	if err != nil {
		t.Fatalf("NewCheckoutService: %v", err)
	}
	return gateway, svc
}

func checkoutItems() []domain.CartItem {
	return []domain.CartItem{
		{
			ID: "item_1",
			Product: domain.Product{
				ID:    "prod_1",
				Name:  "Smash Burger",
				Price: 5.00,
				Variants: []domain.ProductOption{
					{
						ID:   "opt_cheese",
						Name: "Cheese",
						Choices: []domain.VariantChoice{
							{Name: "Cheddar", Price: 1.50},
							{Name: "None", Price: 0},
						},
					},
				},
			},
			Quantity:         2,
			SelectedVariants: map[string][]string{"opt_cheese": {"Cheddar"}},
			TotalPrice:       13.00,
		},
	}
}

func validCheckoutRequest() CheckoutRequest {
	return CheckoutRequest{
		Items:      checkoutItems(),
		Customer:   domain.CustomerInfo{Name: "Ada Diner", Email: "ada@example.com", Phone: "+13125550100"},
		PickupDate: "2026-07-10",
		PickupTime: "12:30",
	}
}

func TestNewCheckoutServiceValidation(t *testing.T) {
	if _, err := NewCheckoutService(CheckoutServiceDeps{}); !errors.Is(err, ErrCheckoutGatewayRequired) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if _, err := NewCheckoutService(CheckoutServiceDeps{
		Square:         &stubGateway{},
		PickupTimezone: "Europe/Berlin",
	}); err == nil {
		t.Fatalf("expected error for unsupported timezone")
	}
	if _, err := NewCheckoutService(CheckoutServiceDeps{
		Square:         &stubGateway{},
		PickupTimezone: "America/Chicago",
	}); err != nil {
		t.Fatalf("unexpected error for supported timezone: %v", err)
	}
}

func TestCreateCheckoutFailsFastWithoutPickup(t *testing.T) {
	gateway, svc := newCheckoutFixture(t)

	tests := []struct {
		name   string
		mutate func(*CheckoutRequest)
		field  string
	}{
		{"missing date", func(r *CheckoutRequest) { r.PickupDate = "" }, "pickupDate"},
		{"missing time", func(r *CheckoutRequest) { r.PickupTime = "" }, "pickupTime"},
		{"missing items", func(r *CheckoutRequest) { r.Items = nil }, "items"},
		{"missing customer", func(r *CheckoutRequest) { r.Customer = domain.CustomerInfo{} }, "customerInfo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCheckoutRequest()
			tc.mutate(&req)
			_, err := svc.CreateCheckout(context.Background(), req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := validation.Fields[tc.field]; !ok {
				t.Fatalf("expected failure on %s, got fields %v", tc.field, validation.Fields)
			}
		})
	}
	if len(gateway.linkReqs) != 0 {
		t.Fatalf("validation failure still reached upstream: %d calls", len(gateway.linkReqs))
	}
}

func TestCreateCheckoutBuildsOrderPayload(t *testing.T) {
	gateway, svc := newCheckoutFixture(t)

	req := validCheckoutRequest()
	req.Discounts = []domain.AppliedDiscount{
		{DiscountID: "disc_pct", Name: "Lunch 10%", Type: domain.DiscountTypePercentage, Value: 10},
		{DiscountID: "disc_amt", Name: "Five Off", Type: domain.DiscountTypeFixedAmount, Value: 5, AppliedAmount: 5},
	}

	result, err := svc.CreateCheckout(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if result.CheckoutURL != "https://square.link/abc" {
		t.Fatalf("checkout url = %s", result.CheckoutURL)
	}
	if result.OrderID != "ord_1" {
		t.Fatalf("order id = %s", result.OrderID)
	}

	if len(gateway.linkReqs) != 1 {
		t.Fatalf("payment link calls = %d, want 1", len(gateway.linkReqs))
	}
	sent := gateway.linkReqs[0]
	if sent.IdempotencyKey != "key_test" {
		t.Fatalf("idempotency key = %s", sent.IdempotencyKey)
	}
	if sent.Order.LocationID != "loc_default" {
		t.Fatalf("location id = %s", sent.Order.LocationID)
	}

	if len(sent.Order.LineItems) != 1 {
		t.Fatalf("line items = %d, want 1", len(sent.Order.LineItems))
	}
	line := sent.Order.LineItems[0]
	if line.Quantity != "2" {
		t.Fatalf("quantity = %q, want string \"2\"", line.Quantity)
	}
	if line.BasePriceMoney == nil || line.BasePriceMoney.Amount != 500 {
		t.Fatalf("base price = %+v, want 500 minor units", line.BasePriceMoney)
	}
	if len(line.Modifiers) != 1 {
		t.Fatalf("modifiers = %d, want 1", len(line.Modifiers))
	}
	modifier := line.Modifiers[0]
	if modifier.Name != "Cheese: Cheddar" {
		t.Fatalf("modifier name = %s", modifier.Name)
	}
	if modifier.BasePriceMoney == nil || modifier.BasePriceMoney.Amount != 150 {
		t.Fatalf("modifier price = %+v, want 150 minor units", modifier.BasePriceMoney)
	}

	if len(sent.Order.Discounts) != 2 {
		t.Fatalf("discounts = %d, want 2", len(sent.Order.Discounts))
	}
	pct := sent.Order.Discounts[0]
	if pct.Percentage != "10" || pct.AmountMoney != nil {
		t.Fatalf("percentage discount = %+v, must carry percentage only", pct)
	}
	amt := sent.Order.Discounts[1]
	if amt.Percentage != "" || amt.AmountMoney == nil || amt.AmountMoney.Amount != 500 {
		t.Fatalf("amount discount = %+v, must carry amount only", amt)
	}

	if len(sent.Order.Fulfillments) != 1 {
		t.Fatalf("fulfillments = %d, want 1", len(sent.Order.Fulfillments))
	}
	pickup := sent.Order.Fulfillments[0]
	if pickup.Type != "PICKUP" || pickup.PickupDetails == nil {
		t.Fatalf("fulfillment = %+v, want pickup block", pickup)
	}
	if pickup.PickupDetails.PickupAt != "2026-07-10T12:30:00-05:00" {
		t.Fatalf("pickup at = %s", pickup.PickupDetails.PickupAt)
	}
	if pickup.PickupDetails.Recipient.DisplayName != "Ada Diner" {
		t.Fatalf("recipient = %+v", pickup.PickupDetails.Recipient)
	}

	if sent.PrePopulatedData == nil || sent.PrePopulatedData.BuyerEmail != "ada@example.com" {
		t.Fatalf("pre-populated data = %+v", sent.PrePopulatedData)
	}
}

func TestCreateCheckoutZeroCostVariantStillListed(t *testing.T) {
	gateway, svc := newCheckoutFixture(t)

	req := validCheckoutRequest()
	req.Items[0].SelectedVariants = map[string][]string{"opt_cheese": {"None"}}

	if _, err := svc.CreateCheckout(context.Background(), req); err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	line := gateway.linkReqs[0].Order.LineItems[0]
	if len(line.Modifiers) != 1 {
		t.Fatalf("modifiers = %d, want zero-cost selection listed", len(line.Modifiers))
	}
	if line.Modifiers[0].BasePriceMoney.Amount != 0 {
		t.Fatalf("zero-cost modifier amount = %d", line.Modifiers[0].BasePriceMoney.Amount)
	}
}

func TestCreateCheckoutRoundsMinorUnits(t *testing.T) {
	gateway, svc := newCheckoutFixture(t)

	req := validCheckoutRequest()
	req.Items[0].Product.Price = 12.345
	req.Items[0].SelectedVariants = nil

	if _, err := svc.CreateCheckout(context.Background(), req); err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	line := gateway.linkReqs[0].Order.LineItems[0]
	if line.BasePriceMoney.Amount != 1235 {
		t.Fatalf("minor units = %d, want 1235 (rounded, not truncated)", line.BasePriceMoney.Amount)
	}
}
