package domain

import "encoding/json"

// Catalog object types as reported by the upstream commerce API.
const (
	CatalogTypeItem         = "ITEM"
	CatalogTypeCategory     = "CATEGORY"
	CatalogTypeModifierList = "MODIFIER_LIST"
	CatalogTypeDiscount     = "DISCOUNT"
)

// Item visibility values; PRIVATE items never appear on the storefront.
const (
	VisibilityPrivate = "PRIVATE"
	VisibilityPublic  = "PUBLIC"
)

// CatalogObject is a partial decoding of an upstream catalog object. Raw
// preserves the original payload so surviving objects are passed through
// byte-for-byte; the typed fields exist only for visibility decisions.
type CatalogObject struct {
	Type         string        `json:"type"`
	ID           string        `json:"id"`
	ItemData     *ItemData     `json:"item_data,omitempty"`
	CategoryData *CategoryData `json:"category_data,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// ItemData carries the item fields consulted by the visibility filter.
type ItemData struct {
	Name       string             `json:"name"`
	IsArchived bool               `json:"is_archived"`
	Visibility string             `json:"visibility,omitempty"`
	Categories []CategoryRef      `json:"categories,omitempty"`
	CategoryID string             `json:"category_id,omitempty"`
	Variations []CatalogVariation `json:"variations,omitempty"`
}

// CategoryRef is the current-style category membership reference.
type CategoryRef struct {
	ID string `json:"id"`
}

// CategoryData carries the category fields consulted by the visibility filter.
type CategoryData struct {
	Name             string `json:"name"`
	OnlineVisibility *bool  `json:"online_visibility,omitempty"`
}

// CatalogVariation is a partial decoding of an item variation.
type CatalogVariation struct {
	ID            string         `json:"id"`
	VariationData *VariationData `json:"item_variation_data,omitempty"`
}

// VariationData carries pricing fields for an item variation.
type VariationData struct {
	Name       string `json:"name"`
	PriceMoney *Money `json:"price_money,omitempty"`
}

// Money is the upstream integer minor-unit money representation.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// UnmarshalJSON decodes the typed fields while retaining the raw payload.
func (o *CatalogObject) UnmarshalJSON(data []byte) error {
	type alias CatalogObject
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = CatalogObject(decoded)
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the preserved raw payload when present.
func (o CatalogObject) MarshalJSON() ([]byte, error) {
	if len(o.Raw) > 0 {
		return o.Raw, nil
	}
	type alias CatalogObject
	return json.Marshal(alias(o))
}
