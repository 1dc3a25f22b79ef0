package domain

import "time"

// Product is the storefront snapshot of a menu item carried on a cart line.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Variants    []ProductOption `json:"variants,omitempty"`
}

// ProductOption describes one selectable variant group on a product.
type ProductOption struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Multi   bool            `json:"multi,omitempty"`
	Choices []VariantChoice `json:"choices,omitempty"`
}

// VariantChoice is a single selectable option with an additional flat price.
type VariantChoice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartItem is one line in the cart. ID is client-generated and unique per
// add; TotalPrice is derived and recomputed on every quantity or variant
// change.
type CartItem struct {
	ID                  string              `json:"id"`
	Product             Product             `json:"product"`
	Quantity            int                 `json:"quantity"`
	SelectedVariants    map[string][]string `json:"selectedVariants,omitempty"`
	SpecialInstructions string              `json:"specialInstructions,omitempty"`
	TotalPrice          float64             `json:"totalPrice"`
	AddedAt             time.Time           `json:"addedAt"`
}

// Discount application types.
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
	DiscountTypeAutomatic   = "automatic"
)

// AppliedDiscount is a discount currently applied to the cart.
// AppliedAmount is computed in currency units against the cart subtotal.
type AppliedDiscount struct {
	DiscountID    string  `json:"discountId"`
	Code          string  `json:"code,omitempty"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Value         float64 `json:"value"`
	AppliedAmount float64 `json:"appliedAmount"`
	AppliedTo     string  `json:"appliedTo,omitempty"`
	Automatic     bool    `json:"automatic,omitempty"`
}

// DayHours is one row of a weekly hour table.
type DayHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// StoreLocation identifies a pickup location fetched from upstream. The
// client never owns this data; a persisted selection is revalidated against
// the latest fetched list on load.
type StoreLocation struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address,omitempty"`
	Timezone      string     `json:"timezone,omitempty"`
	Hours         []DayHours `json:"hours,omitempty"`
	PickupEnabled bool       `json:"pickupEnabled,omitempty"`
	EstimatedWait string     `json:"estimatedWait,omitempty"`
}

// CustomerInfo identifies the person picking up an order.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
