package store

import "github.com/npezzotti/scholarly/internal/types"

// StorageKey is the fixed key the hub snapshot document is stored under.
// The file store uses it as the file name, the postgres store as the row key.
const StorageKey = "scholarly_data_v1"

// HubStore persists the complete hub tree as a single JSON document. Load
// fails soft: missing or malformed data yields an empty list and is only
// logged. Save overwrites the prior snapshot in full; there are no partial
// or delta writes.
type HubStore interface {
	Ping() error
	Load() []types.Hub
	Save(hubs []types.Hub) error
}
