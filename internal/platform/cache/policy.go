package cache

import "strings"

// Cache classes resolved by Classify. Each class carries its own TTL in
// configuration; anything unmatched falls back to ClassDefault.
const (
	ClassLocations  = "locations"
	ClassProducts   = "products"
	ClassCategories = "categories"
	ClassModifiers  = "modifiers"
	ClassDiscounts  = "discounts"
	ClassDefault    = "default"
)

const emptyBodySentinel = "no-body"

// Key derives the cache key for an upstream call: the endpoint path joined
// with the serialized request body. Distinct bodies against the same endpoint
// cache independently.
func Key(endpoint string, body []byte) string {
	if len(body) == 0 {
		return endpoint + ":" + emptyBodySentinel
	}
	return endpoint + ":" + string(body)
}

// catalogMarkers are checked in fixed priority order; the first marker found
// in the body wins. A body that legitimately contained several markers would
// classify by the earliest entry here — ambiguous by construction, and left
// that way on purpose rather than guessed at.
var catalogMarkers = []struct {
	marker string
	class  string
}{
	{"ITEM", ClassProducts},
	{"CATEGORY", ClassCategories},
	{"MODIFIER", ClassModifiers},
	{"DISCOUNT", ClassDiscounts},
}

// Classify buckets an upstream endpoint/body pair into a cache class.
// Location listings classify by endpoint; generic catalog searches classify
// by substring inspection of the serialized body. Classification is
// deterministic for a given endpoint+body pair.
func Classify(endpoint string, body []byte) string {
	if strings.Contains(endpoint, "/locations") {
		return ClassLocations
	}
	if strings.Contains(endpoint, "/catalog/search") {
		serialized := string(body)
		for _, candidate := range catalogMarkers {
			if strings.Contains(serialized, candidate.marker) {
				return candidate.class
			}
		}
	}
	return ClassDefault
}
