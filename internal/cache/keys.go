package cache

import "time"

// Entity kinds used as key prefixes.
const (
	KindBeer     = "beer"
	KindCustomer = "customer"
	KindOrder    = "beer-order"
)

const (
	// Entity cache: {kind}:{id} -> entity JSON
	keyEntity = "%s:%s"

	// Collection cache: {kind}:list:{signature} -> page JSON
	keyCollection = "%s:list:%s"

	// Index of live collection keys per kind, so the whole collection
	// cache can be dropped on any write: {kind}:list:keys
	keyCollectionIndex = "%s:list:keys"

	// Dedup for audit event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

// Cache entries have no TTL: eviction is purely write-driven. Dedup markers
// do expire, they only need to outlive consumer redelivery.
var TTLDedup = 48 * time.Hour
