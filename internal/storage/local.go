package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/FixerMob/Protocol-Service/internal/models"
)

// LocalLedger keeps the protocol collection in a single JSON file that is
// read and rewritten in full on every call.
type LocalLedger struct {
	path string
	mu   sync.Mutex
}

func NewLocalLedger(path string) *LocalLedger {
	return &LocalLedger{path: path}
}

func (l *LocalLedger) Load() ([]models.ProtocolRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		// First run, nothing persisted yet.
		return []models.ProtocolRecord{}, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var records []models.ProtocolRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return records, nil
}

func (l *LocalLedger) Save(records []models.ProtocolRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	// Write to a temporary file first, then rename into place so a crash
	// mid-write cannot leave a truncated ledger behind.
	tempFile := l.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tempFile, l.path); err != nil {
		return fmt.Errorf("failed to rename ledger file: %w", err)
	}
	return nil
}
