package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
	"github.com/lakeview-kitchen/ordering-api/internal/validate"
)

// ErrOrderGatewayRequired indicates the upstream gateway dependency is absent.
var ErrOrderGatewayRequired = errors.New("order service: square gateway is required")

// StoreOfflineError indicates the ordering channel is disabled; mutations are
// rejected before any upstream call with a user-facing retry message.
type StoreOfflineError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreOfflineError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "online ordering is currently unavailable"
}

// StoreStatus is the storefront online/offline flag read from configuration.
type StoreStatus struct {
	Online  bool   `json:"online"`
	Message string `json:"message,omitempty"`
}

// PaymentRequest carries the client payment fields prior to validation.
// Amount arrives as decoded JSON, so numbers come through as float64 and
// form-encoded callers may send numeric strings.
type PaymentRequest struct {
	Token   string `json:"token"`
	Amount  any    `json:"amount"`
	OrderID string `json:"orderId"`
}

// OrderServiceDeps bundles constructor inputs for the order service.
type OrderServiceDeps struct {
	Square         SquareGateway
	LocationID     string
	Currency       string
	Online         func() bool
	OfflineMessage string
	IDGenerator    func() string
}

type orderService struct {
	square         SquareGateway
	locationID     string
	currency       string
	online         func() bool
	offlineMessage string
	newKey         func() string
}

var _ OrderService = (*orderService)(nil)

// NewOrderService constructs the order service.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Square == nil {
		return nil, ErrOrderGatewayRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = "USD"
	}

	online := deps.Online
	if online == nil {
		online = func() bool { return true }
	}

	newKey := deps.IDGenerator
	if newKey == nil {
		newKey = func() string { return ulid.Make().String() }
	}

	return &orderService{
		square:         deps.Square,
		locationID:     strings.TrimSpace(deps.LocationID),
		currency:       currency,
		online:         online,
		offlineMessage: deps.OfflineMessage,
		newKey:         newKey,
	}, nil
}

// Status reports the configured online/offline flag.
func (s *orderService) Status() StoreStatus {
	status := StoreStatus{Online: s.online()}
	if !status.Online {
		status.Message = s.offlineMessage
	}
	return status
}

func (s *orderService) gate() error {
	if !s.online() {
		return &StoreOfflineError{Message: s.offlineMessage}
	}
	return nil
}

// CreateOrder forwards an order body upstream with a fresh idempotency key,
// rejecting the mutation while the store is offline.
func (s *orderService) CreateOrder(ctx context.Context, order square.Order) (json.RawMessage, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	if order.LocationID == "" {
		order.LocationID = s.locationID
	}
	if len(order.LineItems) == 0 {
		return nil, &ValidationError{Fields: map[string][]string{
			"order": {"order must contain at least one line item"},
		}}
	}
	return s.square.CreateOrder(ctx, square.CreateOrderRequest{
		IdempotencyKey: s.newKey(),
		Order:          order,
	})
}

// ProcessPayment validates the client fields, converts the decimal amount to
// minor units, and charges the tokenised source.
func (s *orderService) ProcessPayment(ctx context.Context, req PaymentRequest) (json.RawMessage, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}

	v := validate.New()
	v.Field("token", req.Token).Required().String()
	v.Field("amount", req.Amount).Required().Number().Positive()
	if req.OrderID != "" {
		v.Field("orderId", req.OrderID).String()
	}
	if !v.Valid() {
		return nil, &ValidationError{Fields: v.Errors()}
	}

	amount, err := amountValue(req.Amount)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{
			"amount": {"amount must be a number"},
		}}
	}

	return s.square.CreatePayment(ctx, square.CreatePaymentRequest{
		SourceID:       req.Token,
		IdempotencyKey: s.newKey(),
		AmountMoney: domain.Money{
			Amount:   domain.ToMinorUnits(amount),
			Currency: s.currency,
		},
		OrderID:    strings.TrimSpace(req.OrderID),
		LocationID: s.locationID,
	})
}

func amountValue(value any) (float64, error) {
	switch amount := value.(type) {
	case float64:
		return amount, nil
	case float32:
		return float64(amount), nil
	case int:
		return float64(amount), nil
	case int64:
		return float64(amount), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(amount), 64)
	default:
		return 0, errors.New("amount is not numeric")
	}
}
