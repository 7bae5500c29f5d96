package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FixerMob/Protocol-Service/internal/models"
	"github.com/FixerMob/Protocol-Service/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrMissingDeviceID  = errors.New("device_id is required")
	ErrNoFileSelected   = errors.New("no file selected")
	ErrNoValidFiles     = errors.New("no valid files in upload")
	ErrProtocolNotFound = errors.New("protocol not found")
	ErrDocumentNotFound = errors.New("protocol document not found")
)

// ProtocolService orchestrates the upload pipeline: validate the request,
// persist the files, render the PDF, append the record to the ledger.
// The archive, events and scanner collaborators are optional and may be nil.
type ProtocolService struct {
	ledger   storage.Ledger
	files    *FileStore
	renderer *PDFRenderer
	archive  *MinioService
	events   *EventPublisher
	scanner  *Scanner

	// Serializes the ledger's load-mutate-save cycle. The ledger has no
	// cross-process safety; this lock is the in-process minimum.
	mu sync.Mutex
}

func NewProtocolService(ledger storage.Ledger, files *FileStore, renderer *PDFRenderer,
	archive *MinioService, events *EventPublisher, scanner *Scanner) *ProtocolService {
	return &ProtocolService{
		ledger:   ledger,
		files:    files,
		renderer: renderer,
		archive:  archive,
		events:   events,
		scanner:  scanner,
	}
}

// CreateResult is returned to the caller after a successful upload.
type CreateResult struct {
	ProtocolID string
	PDFURL     string
	FileCount  int
}

// Create handles one upload request. Video uploads carry a single file and
// fail outright on an unsupported extension; photo and screenshot uploads
// silently skip invalid files and fail only when none survive.
func (s *ProtocolService) Create(kind, deviceID string, headers []*multipart.FileHeader) (CreateResult, error) {
	if deviceID == "" {
		return CreateResult{}, ErrMissingDeviceID
	}

	named := false
	for _, h := range headers {
		if h.Filename != "" {
			named = true
			break
		}
	}
	if !named {
		return CreateResult{}, ErrNoFileSelected
	}

	protocolID := uuid.New().String()
	category := categoryFor(kind)

	var files []models.FileMetadata
	if kind == models.KindVideo {
		meta, err := s.files.Store(category, protocolID, -1, headers[0])
		if err != nil {
			return CreateResult{}, err
		}
		files = append(files, meta)
	} else {
		for _, h := range headers {
			if h.Filename == "" {
				continue
			}
			meta, err := s.files.Store(category, protocolID, len(files), h)
			if err != nil {
				if errors.Is(err, ErrUnsupportedType) {
					continue
				}
				return CreateResult{}, err
			}
			files = append(files, meta)
		}
		if len(files) == 0 {
			return CreateResult{}, ErrNoValidFiles
		}
	}

	record := models.ProtocolRecord{
		ID:        protocolID,
		Kind:      kind,
		DeviceID:  deviceID,
		CreatedAt: time.Now(),
		Files:     files,
	}

	pdfPath, err := s.renderer.Render(protocolID, typeLabelFor(kind), deviceID, files)
	if err != nil {
		return CreateResult{}, err
	}
	record.DocumentPath = pdfPath

	if err := s.append(record); err != nil {
		return CreateResult{}, err
	}

	if s.archive != nil {
		if err := s.archive.UploadFile(pdfPath, protocolID+".pdf", "application/pdf"); err != nil {
			log.Printf("warning: failed to archive protocol PDF: %v", err)
		}
	}
	if s.events != nil {
		if err := s.events.ProtocolCreated(record); err != nil {
			log.Printf("warning: failed to publish protocols.created event: %v", err)
		}
	}
	if s.scanner != nil {
		for _, f := range files {
			go s.scanner.ScanFile(f.StoragePath)
		}
	}

	return CreateResult{
		ProtocolID: protocolID,
		PDFURL:     pdfURL(protocolID),
		FileCount:  len(files),
	}, nil
}

func (s *ProtocolService) append(record models.ProtocolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.ledger.Load()
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	records = append(records, record)
	if err := s.ledger.Save(records); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// List returns the protocols of one device, newest first.
func (s *ProtocolService) List(deviceID string) ([]models.ProtocolSummary, error) {
	if deviceID == "" {
		return nil, ErrMissingDeviceID
	}

	records, err := s.ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var matched []models.ProtocolRecord
	for _, rec := range records {
		if rec.DeviceID == deviceID {
			matched = append(matched, rec)
		}
	}
	// Sort on the stored timestamp, not the display string: the display
	// format is day-first and does not order lexicographically.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	summaries := make([]models.ProtocolSummary, 0, len(matched))
	for _, rec := range matched {
		summaries = append(summaries, models.ProtocolSummary{
			ID:     rec.ID,
			Type:   rec.Kind,
			Date:   rec.CreatedAt.Format("02.01.2006 15:04:05"),
			Number: shortNumber(rec.ID),
			PDFURL: pdfURL(rec.ID),
		})
	}
	return summaries, nil
}

// Download resolves a protocol id to its record, verifying that the
// generated document still exists on disk.
func (s *ProtocolService) Download(protocolID string) (models.ProtocolRecord, error) {
	records, err := s.ledger.Load()
	if err != nil {
		return models.ProtocolRecord{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	for _, rec := range records {
		if rec.ID != protocolID {
			continue
		}
		if rec.DocumentPath == "" {
			return models.ProtocolRecord{}, ErrDocumentNotFound
		}
		if _, err := os.Stat(rec.DocumentPath); err != nil {
			return models.ProtocolRecord{}, ErrDocumentNotFound
		}
		return rec, nil
	}
	return models.ProtocolRecord{}, ErrProtocolNotFound
}

func categoryFor(kind string) string {
	switch kind {
	case models.KindVideo:
		return CategoryVideos
	case models.KindScreenshots:
		return CategoryScreenshots
	default:
		return CategoryPhotos
	}
}

func typeLabelFor(kind string) string {
	switch kind {
	case models.KindVideo:
		return "Video protocol"
	case models.KindScreenshots:
		return "Screenshot protocol"
	default:
		return "Photo protocol"
	}
}

func pdfURL(protocolID string) string {
	return "/api/protocols/" + protocolID + "/pdf"
}

// shortNumber is the human-facing protocol number shown in listings.
func shortNumber(id string) string {
	if len(id) < 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}
