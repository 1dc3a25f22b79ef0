package repositories

// Storage keys mirrored on every cart state change. Each key holds an
// independently serialized JSON snapshot.
const (
	SnapshotKeyCartItems        = "cart-items"
	SnapshotKeySelectedLocation = "selected-location"
	SnapshotKeyPickupDate       = "pickup-date"
	SnapshotKeyPickupTime       = "pickup-time"
	SnapshotKeyAppliedDiscounts = "applied-discounts"
)

// SnapshotStore persists serialized JSON snapshots under independent keys.
// Writes are fire-and-forget from the caller's perspective; a failed write
// must not corrupt previously stored state.
type SnapshotStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
