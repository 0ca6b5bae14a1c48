// Package cache provides the read-through snapshot cache for derived
// analytics. Entries are keyed by (kind, client, window) and expire on a TTL;
// the reschedule write path and the ingest consumer invalidate a client's
// entries explicitly so stale snapshots never outlive a known write.
package cache

import (
	"context"
	"strings"

	id "padoca/pkg/domain"
)

const (
	keyPrefix   = "padoca:snap:"
	indexPrefix = "padoca:snapidx:"

	// fleetOwner indexes fleet-wide entries. Any client invalidation also
	// drops fleet entries, since every fleet snapshot includes that client.
	fleetOwner = "_fleet"
)

// SnapshotCache is the read-through cache contract. Get returns (nil, false)
// on a miss; Set stores the value under the configured TTL.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context, clientID id.ClientID) error
}

// Key builds the cache key for a snapshot kind, client, and window. Fleet
// snapshots pass an empty client ID.
func Key(kind string, clientID id.ClientID, windowID string) string {
	owner := ownerOf(clientID)
	return keyPrefix + kind + ":" + owner + ":" + windowID
}

func ownerOf(clientID id.ClientID) string {
	if clientID.IsNil() {
		return fleetOwner
	}
	return clientID.String()
}

// ownerFromKey recovers the owner segment from a snapshot key, empty if the
// key is not a snapshot key.
func ownerFromKey(key string) string {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return ""
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}
