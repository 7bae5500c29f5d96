package models

import (
	"time"
)

// Protocol kinds. Set once at creation, never changed.
const (
	KindVideo       = "video"
	KindPhotos      = "photos"
	KindScreenshots = "screenshots"
)

// FileMetadata describes a single uploaded file that belongs to a protocol.
type FileMetadata struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	Size         int64  `json:"size_bytes"`
	StoragePath  string `json:"storage_path"`
}

// ProtocolRecord is one inspection protocol entry in the ledger.
// Records are append-only: they are never updated or deleted after creation.
type ProtocolRecord struct {
	ID           string         `json:"id"`
	Kind         string         `json:"kind"`
	DeviceID     string         `json:"device_id"`
	CreatedAt    time.Time      `json:"created_at"`
	Files        []FileMetadata `json:"files"`
	DocumentPath string         `json:"document_path,omitempty"`
}

// ProtocolSummary is the list-endpoint projection of a record.
type ProtocolSummary struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Number string `json:"number"`
	PDFURL string `json:"pdf_url"`
}
