package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

// supportedPickupTimezone is the only locale the offset heuristic in
// pickup.go covers.
const supportedPickupTimezone = "America/Chicago"

// ErrCheckoutGatewayRequired indicates the upstream gateway dependency is absent.
var ErrCheckoutGatewayRequired = errors.New("checkout service: square gateway is required")

// ValidationError carries structured per-field failures for malformed client input.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// CheckoutRequest is one checkout attempt assembled from cart state.
type CheckoutRequest struct {
	Items       []domain.CartItem
	Customer    domain.CustomerInfo
	Discounts   []domain.AppliedDiscount
	LocationID  string
	PickupDate  string
	PickupTime  string
	Note        string
	RedirectURL string
}

// CheckoutResult is the hosted payment page handed back to the storefront.
type CheckoutResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	OrderID     string `json:"orderId"`
}

// CheckoutServiceDeps bundles constructor inputs for the checkout service.
type CheckoutServiceDeps struct {
	Square         SquareGateway
	LocationID     string
	Currency       string
	PickupTimezone string
	IDGenerator    func() string
}

type checkoutService struct {
	square     SquareGateway
	locationID string
	currency   string
	newKey     func() string
}

var _ CheckoutService = (*checkoutService)(nil)

// NewCheckoutService constructs the checkout service. Each attempt gets its
// own idempotency key: a millisecond timestamp plus random suffix, which is
// exactly a ULID.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Square == nil {
		return nil, ErrCheckoutGatewayRequired
	}
	if tz := strings.TrimSpace(deps.PickupTimezone); tz != "" && tz != supportedPickupTimezone {
		return nil, fmt.Errorf("checkout service: unsupported pickup timezone %q", tz)
	}

	currency := strings.ToUpper(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = "USD"
	}

	newKey := deps.IDGenerator
	if newKey == nil {
		newKey = func() string { return ulid.Make().String() }
	}

	return &checkoutService{
		square:     deps.Square,
		locationID: strings.TrimSpace(deps.LocationID),
		currency:   currency,
		newKey:     newKey,
	}, nil
}

// CreateCheckout validates the attempt, builds the order payload, and asks
// upstream for a hosted payment link. Validation failures are returned before
// any upstream call is made.
func (s *checkoutService) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	if err := s.validate(req); err != nil {
		return CheckoutResult{}, err
	}

	order, err := s.buildOrder(req)
	if err != nil {
		return CheckoutResult{}, err
	}

	linkReq := square.CreatePaymentLinkRequest{
		IdempotencyKey: s.newKey(),
		Order:          order,
	}
	if req.RedirectURL != "" {
		linkReq.CheckoutOptions = &square.CheckoutOptions{RedirectURL: req.RedirectURL}
	}
	if req.Customer.Email != "" || req.Customer.Phone != "" {
		linkReq.PrePopulatedData = &square.PrePopulatedData{
			BuyerEmail:       req.Customer.Email,
			BuyerPhoneNumber: req.Customer.Phone,
		}
	}

	raw, err := s.square.CreatePaymentLink(ctx, linkReq)
	if err != nil {
		return CheckoutResult{}, err
	}

	var decoded square.CreatePaymentLinkResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return CheckoutResult{}, fmt.Errorf("checkout service: decode payment link response: %w", err)
	}
	return CheckoutResult{
		CheckoutURL: decoded.PaymentLink.URL,
		OrderID:     decoded.PaymentLink.OrderID,
	}, nil
}

func (s *checkoutService) validate(req CheckoutRequest) error {
	fields := make(map[string][]string)
	if len(req.Items) == 0 {
		fields["items"] = append(fields["items"], "items is required")
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		fields["customerInfo"] = append(fields["customerInfo"], "customer name is required")
	}
	if strings.TrimSpace(req.PickupDate) == "" {
		fields["pickupDate"] = append(fields["pickupDate"], "pickupDate is required")
	}
	if strings.TrimSpace(req.PickupTime) == "" {
		fields["pickupTime"] = append(fields["pickupTime"], "pickupTime is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// buildOrder assembles the upstream order body. Variant selections become
// distinct modifier lines so the price breakdown stays auditable; the base
// price is never altered by a selection.
func (s *checkoutService) buildOrder(req CheckoutRequest) (square.Order, error) {
	pickupAt, err := BuildPickupAt(req.PickupDate, req.PickupTime)
	if err != nil {
		return square.Order{}, &ValidationError{Fields: map[string][]string{
			"pickupDate": {err.Error()},
		}}
	}

	locationID := strings.TrimSpace(req.LocationID)
	if locationID == "" {
		locationID = s.locationID
	}

	lines := make([]square.OrderLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		line := square.OrderLineItem{
			Name:     item.Product.Name,
			Quantity: strconv.Itoa(quantity),
			BasePriceMoney: &domain.Money{
				Amount:   domain.ToMinorUnits(item.Product.Price),
				Currency: s.currency,
			},
			Note: item.SpecialInstructions,
		}
		line.Modifiers = s.variantModifiers(item)
		lines = append(lines, line)
	}

	order := square.Order{
		LocationID:   locationID,
		LineItems:    lines,
		Discounts:    s.orderDiscounts(req.Discounts),
		Fulfillments: []square.Fulfillment{s.pickupFulfillment(req, pickupAt)},
	}
	return order, nil
}

// variantModifiers expands the selected variant choices into flat-amount
// modifier lines, including zero-cost choices.
func (s *checkoutService) variantModifiers(item domain.CartItem) []square.OrderLineItemModifier {
	if len(item.SelectedVariants) == 0 {
		return nil
	}

	var modifiers []square.OrderLineItemModifier
	for _, option := range item.Product.Variants {
		chosen, ok := item.SelectedVariants[option.ID]
		if !ok {
			continue
		}
		for _, name := range chosen {
			price := 0.0
			for _, choice := range option.Choices {
				if choice.Name == name {
					price = choice.Price
					break
				}
			}
			modifiers = append(modifiers, square.OrderLineItemModifier{
				Name: option.Name + ": " + name,
				BasePriceMoney: &domain.Money{
					Amount:   domain.ToMinorUnits(price),
					Currency: s.currency,
				},
			})
		}
	}
	return modifiers
}

// orderDiscounts converts applied discounts into order-level entries. Each
// carries either a percentage or a fixed minor-unit amount, never both.
func (s *checkoutService) orderDiscounts(applied []domain.AppliedDiscount) []square.OrderDiscount {
	if len(applied) == 0 {
		return nil
	}
	out := make([]square.OrderDiscount, 0, len(applied))
	for _, discount := range applied {
		entry := square.OrderDiscount{
			UID:   discount.DiscountID,
			Name:  discount.Name,
			Scope: "ORDER",
		}
		if discount.Type == domain.DiscountTypePercentage {
			entry.Percentage = strconv.FormatFloat(discount.Value, 'f', -1, 64)
		} else {
			entry.AmountMoney = &domain.Money{
				Amount:   domain.ToMinorUnits(discount.AppliedAmount),
				Currency: s.currency,
			}
		}
		out = append(out, entry)
	}
	return out
}

func (s *checkoutService) pickupFulfillment(req CheckoutRequest, pickupAt string) square.Fulfillment {
	return square.Fulfillment{
		Type:  "PICKUP",
		State: "PROPOSED",
		PickupDetails: &square.PickupDetails{
			Recipient: square.PickupRecipient{
				DisplayName:  req.Customer.Name,
				EmailAddress: req.Customer.Email,
				PhoneNumber:  req.Customer.Phone,
			},
			PickupAt: pickupAt,
			Note:     req.Note,
		},
	}
}
