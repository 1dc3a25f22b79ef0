package square

import "github.com/lakeview-kitchen/ordering-api/internal/domain"

// SearchCatalogRequest is the generic catalog search body. Object types use
// the upstream enumeration (ITEM, CATEGORY, MODIFIER_LIST, DISCOUNT, ...).
type SearchCatalogRequest struct {
	ObjectTypes           []string `json:"object_types"`
	IncludeRelatedObjects bool     `json:"include_related_objects,omitempty"`
	IncludeDeletedObjects bool     `json:"include_deleted_objects,omitempty"`
	Limit                 int      `json:"limit,omitempty"`
	Cursor                string   `json:"cursor,omitempty"`
}

// SearchCatalogResponse decodes the object list from a catalog search.
type SearchCatalogResponse struct {
	Objects []domain.CatalogObject `json:"objects,omitempty"`
	Cursor  string                 `json:"cursor,omitempty"`
}

// OrderLineItemModifier is an auditable flat-amount modifier on a line item.
type OrderLineItemModifier struct {
	Name            string        `json:"name"`
	BasePriceMoney  *domain.Money `json:"base_price_money,omitempty"`
	CatalogObjectID string        `json:"catalog_object_id,omitempty"`
}

// OrderLineItem is one upstream order line. Quantity is a string per the
// upstream API contract.
type OrderLineItem struct {
	Name            string                  `json:"name,omitempty"`
	CatalogObjectID string                  `json:"catalog_object_id,omitempty"`
	Quantity        string                  `json:"quantity"`
	BasePriceMoney  *domain.Money           `json:"base_price_money,omitempty"`
	Modifiers       []OrderLineItemModifier `json:"modifiers,omitempty"`
	Note            string                  `json:"note,omitempty"`
}

// OrderDiscount is an order-level discount carrying either a percentage or a
// fixed minor-unit amount, never both.
type OrderDiscount struct {
	UID         string        `json:"uid,omitempty"`
	Name        string        `json:"name"`
	Percentage  string        `json:"percentage,omitempty"`
	AmountMoney *domain.Money `json:"amount_money,omitempty"`
	Scope       string        `json:"scope,omitempty"`
}

// PickupRecipient identifies who collects the order.
type PickupRecipient struct {
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email_address,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

// PickupDetails is the pickup fulfillment block. PickupAt is an RFC 3339
// timestamp with the store's UTC offset.
type PickupDetails struct {
	Recipient PickupRecipient `json:"recipient"`
	PickupAt  string          `json:"pickup_at"`
	Note      string          `json:"note,omitempty"`
}

// Fulfillment wraps the pickup details with the upstream type tag.
type Fulfillment struct {
	Type          string         `json:"type"`
	State         string         `json:"state,omitempty"`
	PickupDetails *PickupDetails `json:"pickup_details,omitempty"`
}

// Order is the upstream order body.
type Order struct {
	LocationID   string          `json:"location_id"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	LineItems    []OrderLineItem `json:"line_items"`
	Discounts    []OrderDiscount `json:"discounts,omitempty"`
	Fulfillments []Fulfillment   `json:"fulfillments,omitempty"`
}

// CreateOrderRequest creates an order; the idempotency key must be unique
// per attempt.
type CreateOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Order          Order  `json:"order"`
}

// CreatePaymentRequest charges a tokenised payment source.
type CreatePaymentRequest struct {
	SourceID       string       `json:"source_id"`
	IdempotencyKey string       `json:"idempotency_key"`
	AmountMoney    domain.Money `json:"amount_money"`
	OrderID        string       `json:"order_id,omitempty"`
	LocationID     string       `json:"location_id,omitempty"`
}

// CheckoutOptions customises the hosted payment page.
type CheckoutOptions struct {
	RedirectURL        string `json:"redirect_url,omitempty"`
	AskForShippingAddr bool   `json:"ask_for_shipping_address,omitempty"`
}

// PrePopulatedData seeds buyer fields on the hosted payment page.
type PrePopulatedData struct {
	BuyerEmail       string `json:"buyer_email,omitempty"`
	BuyerPhoneNumber string `json:"buyer_phone_number,omitempty"`
}

// CreatePaymentLinkRequest builds a hosted checkout link for an order.
type CreatePaymentLinkRequest struct {
	IdempotencyKey   string            `json:"idempotency_key"`
	Order            Order             `json:"order"`
	CheckoutOptions  *CheckoutOptions  `json:"checkout_options,omitempty"`
	PrePopulatedData *PrePopulatedData `json:"pre_populated_data,omitempty"`
}

// PaymentLink decodes the hosted checkout link result.
type PaymentLink struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

// CreatePaymentLinkResponse wraps the payment link payload.
type CreatePaymentLinkResponse struct {
	PaymentLink PaymentLink `json:"payment_link"`
}

// Location decodes the subset of upstream location fields the storefront
// consumes.
type Location struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status,omitempty"`
	Timezone string           `json:"timezone,omitempty"`
	Address  *LocationAddress `json:"address,omitempty"`
	Hours    *BusinessHours   `json:"business_hours,omitempty"`
}

// LocationAddress is the upstream postal address block.
type LocationAddress struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	State        string `json:"administrative_district_level_1,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// BusinessHours is the weekly hour table.
type BusinessHours struct {
	Periods []BusinessHoursPeriod `json:"periods,omitempty"`
}

// BusinessHoursPeriod is one open interval on a given day.
type BusinessHoursPeriod struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_local_time"`
	EndTime   string `json:"end_local_time"`
}

// ListLocationsResponse decodes the location list.
type ListLocationsResponse struct {
	Locations []Location `json:"locations,omitempty"`
}

// CreateOrderResponse decodes the created order identity.
type CreateOrderResponse struct {
	Order struct {
		ID         string `json:"id"`
		LocationID string `json:"location_id"`
		State      string `json:"state,omitempty"`
	} `json:"order"`
}
