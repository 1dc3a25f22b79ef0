package services

import (
	"context"
	"encoding/json"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product            = domain.Product
	CartItem           = domain.CartItem
	AppliedDiscount    = domain.AppliedDiscount
	StoreLocation      = domain.StoreLocation
	CustomerInfo       = domain.CustomerInfo
	SystemHealthReport = domain.SystemHealthReport
)

// SquareGateway is the upstream surface consumed by the services. The
// concrete implementation is square.Client.
type SquareGateway interface {
	ListLocations(ctx context.Context) (json.RawMessage, error)
	SearchCatalog(ctx context.Context, body []byte) (json.RawMessage, error)
	CreateOrder(ctx context.Context, req square.CreateOrderRequest) (json.RawMessage, error)
	CreatePayment(ctx context.Context, req square.CreatePaymentRequest) (json.RawMessage, error)
	CreatePaymentLink(ctx context.Context, req square.CreatePaymentLinkRequest) (json.RawMessage, error)
}

// CatalogService serves catalog reads through the response cache and applies
// storefront visibility filtering to product listings.
type CatalogService interface {
	Locations(ctx context.Context) (json.RawMessage, error)
	Products(ctx context.Context) (json.RawMessage, error)
	Categories(ctx context.Context) (json.RawMessage, error)
	Modifiers(ctx context.Context) (json.RawMessage, error)
	Discounts(ctx context.Context) (json.RawMessage, error)
	MeasurementUnits(ctx context.Context) (json.RawMessage, error)
}

// CheckoutService builds upstream order and hosted payment-link payloads
// from cart state.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
}

// OrderService forwards order and payment mutations, gated on store status.
type OrderService interface {
	CreateOrder(ctx context.Context, order square.Order) (json.RawMessage, error)
	ProcessPayment(ctx context.Context, req PaymentRequest) (json.RawMessage, error)
	Status() StoreStatus
}

// CartService is the owned cart state store: items, discounts, pickup
// selection, with snapshot persistence and automatic discount recomputation.
type CartService interface {
	Load(ctx context.Context, available []StoreLocation) error
	AddItem(product Product, quantity int, variants map[string][]string, instructions string) (CartItem, error)
	UpdateQuantity(itemID string, quantity int) error
	UpdateVariants(itemID string, variants map[string][]string) error
	UpdateInstructions(itemID string, instructions string) error
	RemoveItem(itemID string) error
	Clear() error
	Items() []CartItem
	ApplyDiscount(discount AppliedDiscount) error
	RemoveDiscount(discountID string) error
	Discounts() []AppliedDiscount
	SetLocation(location StoreLocation) error
	Location() (StoreLocation, bool)
	SetPickup(date, timeOfDay string) error
	Pickup() (date, timeOfDay string)
	Subtotal() float64
	TotalDiscount() float64
	TotalPrice() float64
	Flush()
	Reset()
}

// SystemService provides health reports and runtime metadata.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}
