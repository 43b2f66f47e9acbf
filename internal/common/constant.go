package common

const (
	// APIKeyHeaderName is the HTTP header carrying the sync endpoint API key.
	APIKeyHeaderName = "x-api-key"

	// SnapshotFileName is the canonical snapshot file inside a connected
	// directory; LockFileName is its co-located advisory lock marker.
	SnapshotFileName = "database.json"
	LockFileName     = "database.lock"
)
