package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/FixerMob/Protocol-Service/internal/models"
	_ "github.com/lib/pq"
)

// PostgresLedger stores the protocol collection in PostgreSQL while keeping
// the whole-collection Load/Save contract: Save replaces the table content
// inside a single transaction.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(connectionString string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	l := &PostgresLedger{db: db}
	if err := l.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("Connected to PostgreSQL ledger")
	return l, nil
}

func (l *PostgresLedger) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS protocols (
		id UUID PRIMARY KEY,
		kind VARCHAR(20) NOT NULL,
		device_id VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		files JSONB NOT NULL,
		document_path VARCHAR(500)
	);

	CREATE INDEX IF NOT EXISTS idx_protocols_device_id ON protocols(device_id);
	CREATE INDEX IF NOT EXISTS idx_protocols_created_at ON protocols(created_at DESC);
	`
	_, err := l.db.Exec(query)
	return err
}

func (l *PostgresLedger) Load() ([]models.ProtocolRecord, error) {
	rows, err := l.db.Query(`
		SELECT id, kind, device_id, created_at, files, document_path
		FROM protocols
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to load protocols: %w", err)
	}
	defer rows.Close()

	records := []models.ProtocolRecord{}
	for rows.Next() {
		var rec models.ProtocolRecord
		var filesJSON []byte
		var docPath sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.DeviceID, &rec.CreatedAt, &filesJSON, &docPath); err != nil {
			return nil, fmt.Errorf("failed to scan protocol row: %w", err)
		}
		if err := json.Unmarshal(filesJSON, &rec.Files); err != nil {
			return nil, fmt.Errorf("failed to parse files for protocol %s: %w", rec.ID, err)
		}
		rec.DocumentPath = docPath.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (l *PostgresLedger) Save(records []models.ProtocolRecord) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM protocols`); err != nil {
		return fmt.Errorf("failed to clear protocols: %w", err)
	}

	for _, rec := range records {
		filesJSON, err := json.Marshal(rec.Files)
		if err != nil {
			return fmt.Errorf("failed to marshal files for protocol %s: %w", rec.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO protocols (id, kind, device_id, created_at, files, document_path)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ID, rec.Kind, rec.DeviceID, rec.CreatedAt, filesJSON, rec.DocumentPath)
		if err != nil {
			return fmt.Errorf("failed to insert protocol %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (l *PostgresLedger) Close() error {
	return l.db.Close()
}
