package storage

import (
	"sync"

	"github.com/FixerMob/Protocol-Service/internal/models"
)

// MemoryLedger holds the collection in memory only. Used in tests and for
// throwaway runs where persistence does not matter.
type MemoryLedger struct {
	mu      sync.Mutex
	records []models.ProtocolRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: []models.ProtocolRecord{}}
}

func (m *MemoryLedger) Load() ([]models.ProtocolRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ProtocolRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryLedger) Save(records []models.ProtocolRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]models.ProtocolRecord, len(records))
	copy(m.records, records)
	return nil
}
