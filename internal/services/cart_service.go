package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/repositories"
)

const defaultDiscountDebounce = 300 * time.Millisecond

var (
	// ErrCartSnapshotsRequired indicates the snapshot store dependency is absent.
	ErrCartSnapshotsRequired = errors.New("cart service: snapshot store is required")
	// ErrCartLocationRequired indicates a mutation was attempted before a pickup location was selected.
	ErrCartLocationRequired = errors.New("cart service: select a pickup location first")
	// ErrCartItemNotFound indicates the referenced cart line does not exist.
	ErrCartItemNotFound = errors.New("cart service: item not found")
	// ErrCartInvalidQuantity indicates a quantity below one.
	ErrCartInvalidQuantity = errors.New("cart service: quantity must be at least one")
)

// AutoDiscountFunc computes the automatically eligible discounts for the
// current cart contents. It must be a pure function of its inputs; the store
// calls it after every debounced item change.
type AutoDiscountFunc func(items []domain.CartItem, subtotal float64) []domain.AppliedDiscount

// CartServiceDeps bundles constructor inputs for the cart store.
type CartServiceDeps struct {
	Snapshots      repositories.SnapshotStore
	AutoDiscounts  AutoDiscountFunc
	Online         func() bool
	OfflineMessage string
	Debounce       time.Duration
	Clock          func() time.Time
	Logger         func(context.Context, string, map[string]any)
}

type cartService struct {
	mu         sync.Mutex
	items      []domain.CartItem
	discounts  []domain.AppliedDiscount
	location   *domain.StoreLocation
	pickupDate string
	pickupTime string
	timer      *time.Timer

	snapshots      repositories.SnapshotStore
	autoDiscounts  AutoDiscountFunc
	online         func() bool
	offlineMessage string
	debounce       time.Duration
	now            func() time.Time
	logger         func(context.Context, string, map[string]any)
}

var _ CartService = (*cartService)(nil)

// NewCartService constructs the cart store. The store owns all cart state;
// consumers hold a reference and never the state itself.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Snapshots == nil {
		return nil, ErrCartSnapshotsRequired
	}

	autoDiscounts := deps.AutoDiscounts
	if autoDiscounts == nil {
		autoDiscounts = func([]domain.CartItem, float64) []domain.AppliedDiscount { return nil }
	}
	online := deps.Online
	if online == nil {
		online = func() bool { return true }
	}
	debounce := deps.Debounce
	if debounce <= 0 {
		debounce = defaultDiscountDebounce
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		snapshots:      deps.Snapshots,
		autoDiscounts:  autoDiscounts,
		online:         online,
		offlineMessage: deps.OfflineMessage,
		debounce:       debounce,
		now:            clock,
		logger:         logger,
	}, nil
}

// Load rehydrates cart state from the snapshot store. When a location list
// is supplied, a persisted selection referring to a location no longer on the
// list is dropped silently.
func (s *cartService) Load(ctx context.Context, available []domain.StoreLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok, err := s.snapshots.Get(repositories.SnapshotKeyCartItems); err != nil {
		return fmt.Errorf("cart service: load items: %w", err)
	} else if ok {
		if err := json.Unmarshal(data, &s.items); err != nil {
			s.logger(ctx, "cart.snapshot_corrupt", map[string]any{"key": repositories.SnapshotKeyCartItems, "error": err.Error()})
			s.items = nil
		}
	}

	if data, ok, err := s.snapshots.Get(repositories.SnapshotKeyAppliedDiscounts); err != nil {
		return fmt.Errorf("cart service: load discounts: %w", err)
	} else if ok {
		if err := json.Unmarshal(data, &s.discounts); err != nil {
			s.logger(ctx, "cart.snapshot_corrupt", map[string]any{"key": repositories.SnapshotKeyAppliedDiscounts, "error": err.Error()})
			s.discounts = nil
		}
	}

	if data, ok, err := s.snapshots.Get(repositories.SnapshotKeySelectedLocation); err != nil {
		return fmt.Errorf("cart service: load location: %w", err)
	} else if ok {
		var location domain.StoreLocation
		if err := json.Unmarshal(data, &location); err == nil && location.ID != "" {
			s.location = &location
		}
	}

	if data, ok, _ := s.snapshots.Get(repositories.SnapshotKeyPickupDate); ok {
		var date string
		if json.Unmarshal(data, &date) == nil {
			s.pickupDate = date
		}
	}
	if data, ok, _ := s.snapshots.Get(repositories.SnapshotKeyPickupTime); ok {
		var timeOfDay string
		if json.Unmarshal(data, &timeOfDay) == nil {
			s.pickupTime = timeOfDay
		}
	}

	if s.location != nil && available != nil && !locationListed(s.location.ID, available) {
		s.logger(ctx, "cart.stale_location_dropped", map[string]any{"location_id": s.location.ID})
		s.location = nil
		if err := s.snapshots.Delete(repositories.SnapshotKeySelectedLocation); err != nil {
			s.logger(ctx, "cart.snapshot_delete_failed", map[string]any{"error": err.Error()})
		}
	}
	return nil
}

func locationListed(id string, available []domain.StoreLocation) bool {
	for _, location := range available {
		if location.ID == id {
			return true
		}
	}
	return false
}

// gate rejects cart mutations while no pickup location is selected or the
// ordering channel is offline. Callers must hold the lock.
func (s *cartService) gate() error {
	if !s.online() {
		return &StoreOfflineError{Message: s.offlineMessage}
	}
	if s.location == nil {
		return ErrCartLocationRequired
	}
	return nil
}

// AddItem appends a new cart line with a derived total price and schedules
// the automatic discount recompute.
func (s *cartService) AddItem(product domain.Product, quantity int, variants map[string][]string, instructions string) (domain.CartItem, error) {
	if quantity < 1 {
		return domain.CartItem{}, ErrCartInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return domain.CartItem{}, err
	}

	now := s.now()
	item := domain.CartItem{
		ID:                  newItemID(product.ID, now),
		Product:             product,
		Quantity:            quantity,
		SelectedVariants:    copyVariants(variants),
		SpecialInstructions: instructions,
		TotalPrice:          lineTotal(product, variants, quantity),
		AddedAt:             now,
	}
	s.items = append(s.items, item)
	s.afterItemChange()
	return item, nil
}

// newItemID builds the client-generated composite id: product id, timestamp,
// random suffix.
func newItemID(productID string, now time.Time) string {
	suffix := ulid.Make().String()
	return fmt.Sprintf("%s-%d-%s", productID, now.UnixMilli(), suffix[len(suffix)-6:])
}

func (s *cartService) UpdateQuantity(itemID string, quantity int) error {
	if quantity < 1 {
		return ErrCartInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		s.items[i].Quantity = quantity
		s.items[i].TotalPrice = lineTotal(s.items[i].Product, s.items[i].SelectedVariants, quantity)
		s.afterItemChange()
		return nil
	}
	return ErrCartItemNotFound
}

func (s *cartService) UpdateVariants(itemID string, variants map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		s.items[i].SelectedVariants = copyVariants(variants)
		s.items[i].TotalPrice = lineTotal(s.items[i].Product, variants, s.items[i].Quantity)
		s.afterItemChange()
		return nil
	}
	return ErrCartItemNotFound
}

func (s *cartService) UpdateInstructions(itemID string, instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		s.items[i].SpecialInstructions = instructions
		s.persistLocked()
		return nil
	}
	return ErrCartItemNotFound
}

func (s *cartService) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.afterItemChange()
		return nil
	}
	return ErrCartItemNotFound
}

// Clear empties the cart and drops applied discounts. Clearing is allowed
// regardless of store status.
func (s *cartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.discounts = nil
	s.stopTimerLocked()
	s.persistLocked()
	return nil
}

func (s *cartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// ApplyDiscount adds a manually entered discount, computing its applied
// amount against the current subtotal. A duplicate discount id updates the
// existing entry instead of adding a second one.
func (s *cartService) ApplyDiscount(discount domain.AppliedDiscount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	discount.AppliedAmount = appliedAmount(discount, s.subtotalLocked())
	for i := range s.discounts {
		if s.discounts[i].DiscountID == discount.DiscountID {
			s.discounts[i] = discount
			s.persistLocked()
			return nil
		}
	}
	s.discounts = append(s.discounts, discount)
	s.persistLocked()
	return nil
}

func (s *cartService) RemoveDiscount(discountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate(); err != nil {
		return err
	}

	for i := range s.discounts {
		if s.discounts[i].DiscountID == discountID {
			s.discounts = append(s.discounts[:i], s.discounts[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return nil
}

func (s *cartService) Discounts() []domain.AppliedDiscount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AppliedDiscount(nil), s.discounts...)
}

func (s *cartService) SetLocation(location domain.StoreLocation) error {
	if location.ID == "" {
		return errors.New("cart service: location id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &location
	s.persistLocked()
	return nil
}

func (s *cartService) Location() (domain.StoreLocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return domain.StoreLocation{}, false
	}
	return *s.location, true
}

func (s *cartService) SetPickup(date, timeOfDay string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickupDate = date
	s.pickupTime = timeOfDay
	s.persistLocked()
	return nil
}

func (s *cartService) Pickup() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickupDate, s.pickupTime
}

func (s *cartService) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *cartService) subtotalLocked() float64 {
	total := 0.0
	for _, item := range s.items {
		total += item.TotalPrice
	}
	return total
}

func (s *cartService) TotalDiscount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalDiscountLocked()
}

func (s *cartService) totalDiscountLocked() float64 {
	total := 0.0
	for _, discount := range s.discounts {
		total += discount.AppliedAmount
	}
	return total
}

// TotalPrice is the subtotal less applied discounts, floored at zero.
func (s *cartService) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.subtotalLocked() - s.totalDiscountLocked()
	if total < 0 {
		return 0
	}
	return total
}

// Flush cancels any pending debounce and recomputes automatic discounts
// immediately. Intended for tests and shutdown.
func (s *cartService) Flush() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	s.recomputeAutomatic()
}

// Reset clears all state and deletes the persisted snapshots.
func (s *cartService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.items = nil
	s.discounts = nil
	s.location = nil
	s.pickupDate = ""
	s.pickupTime = ""
	for _, key := range []string{
		repositories.SnapshotKeyCartItems,
		repositories.SnapshotKeyAppliedDiscounts,
		repositories.SnapshotKeySelectedLocation,
		repositories.SnapshotKeyPickupDate,
		repositories.SnapshotKeyPickupTime,
	} {
		if err := s.snapshots.Delete(key); err != nil {
			s.logger(context.Background(), "cart.snapshot_delete_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
}

// afterItemChange persists the new state and resets the debounced automatic
// discount recompute. The timer is reset, never stacked; a newer change
// supersedes a pending recompute. Callers must hold the lock.
func (s *cartService) afterItemChange() {
	s.persistLocked()
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.debounce, s.recomputeAutomatic)
}

func (s *cartService) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// recomputeAutomatic merges freshly computed automatic discounts into the
// applied set. Manual entries are never evicted; previous automatic entries
// are replaced wholesale, and duplicate ids collapse keeping the manual one.
func (s *cartService) recomputeAutomatic() {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]domain.CartItem(nil), s.items...)
	fresh := s.autoDiscounts(items, s.subtotalLocked())

	manual := make([]domain.AppliedDiscount, 0, len(s.discounts))
	seen := make(map[string]struct{})
	for _, discount := range s.discounts {
		if !discount.Automatic {
			manual = append(manual, discount)
			seen[discount.DiscountID] = struct{}{}
		}
	}

	merged := manual
	for _, discount := range fresh {
		if _, dup := seen[discount.DiscountID]; dup {
			continue
		}
		seen[discount.DiscountID] = struct{}{}
		discount.Automatic = true
		merged = append(merged, discount)
	}

	s.discounts = merged
	s.persistLocked()
}

// persistLocked mirrors the full cart state to the snapshot store. Failures
// are logged, not surfaced; persistence is fire and forget.
func (s *cartService) persistLocked() {
	s.persistKey(repositories.SnapshotKeyCartItems, s.items)
	s.persistKey(repositories.SnapshotKeyAppliedDiscounts, s.discounts)
	s.persistKey(repositories.SnapshotKeyPickupDate, s.pickupDate)
	s.persistKey(repositories.SnapshotKeyPickupTime, s.pickupTime)
	if s.location != nil {
		s.persistKey(repositories.SnapshotKeySelectedLocation, s.location)
	}
}

func (s *cartService) persistKey(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger(context.Background(), "cart.snapshot_encode_failed", map[string]any{"key": key, "error": err.Error()})
		return
	}
	if err := s.snapshots.Set(key, data); err != nil {
		s.logger(context.Background(), "cart.snapshot_write_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// lineTotal derives a cart line's total: base price plus each selected
// variant choice's flat amount, times quantity.
func lineTotal(product domain.Product, variants map[string][]string, quantity int) float64 {
	unit := product.Price
	for _, option := range product.Variants {
		chosen, ok := variants[option.ID]
		if !ok {
			continue
		}
		for _, name := range chosen {
			for _, choice := range option.Choices {
				if choice.Name == name {
					unit += choice.Price
					break
				}
			}
		}
	}
	return unit * float64(quantity)
}

// appliedAmount computes the currency-unit reduction for one discount
// against the given subtotal.
func appliedAmount(discount domain.AppliedDiscount, subtotal float64) float64 {
	switch discount.Type {
	case domain.DiscountTypePercentage:
		return subtotal * discount.Value / 100
	default:
		return discount.Value
	}
}

func copyVariants(variants map[string][]string) map[string][]string {
	if variants == nil {
		return nil
	}
	out := make(map[string][]string, len(variants))
	for id, choices := range variants {
		out[id] = append([]string(nil), choices...)
	}
	return out
}
