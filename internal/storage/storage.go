package storage

import "github.com/FixerMob/Protocol-Service/internal/models"

// Ledger is the persistence contract for the protocol collection.
//
// Both operations work on the whole collection: Load returns every record,
// Save rewrites the backing store from scratch. Callers that mutate must
// load, change a local copy and save it back; there is no partial update.
// The load-mutate-save cycle is not safe across concurrent callers, so the
// service serializes it behind a single lock.
type Ledger interface {
	Load() ([]models.ProtocolRecord, error)
	Save(records []models.ProtocolRecord) error
}
