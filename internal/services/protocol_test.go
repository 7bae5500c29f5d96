package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FixerMob/Protocol-Service/internal/models"
	"github.com/FixerMob/Protocol-Service/internal/storage"
)

func newTestService(t *testing.T) (*ProtocolService, *storage.MemoryLedger) {
	t.Helper()
	dir := t.TempDir()

	store, err := NewFileStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	renderer, err := NewPDFRenderer(filepath.Join(dir, "protocols"))
	if err != nil {
		t.Fatalf("NewPDFRenderer: %v", err)
	}

	ledger := storage.NewMemoryLedger()
	return NewProtocolService(ledger, store, renderer, nil, nil, nil), ledger
}

func TestCreateVideoProtocol(t *testing.T) {
	svc, ledger := newTestService(t)
	headers := uploadHeaders(t, "video", []testFile{{"inspection.mp4", []byte("videodata")}})

	result, err := svc.Create(models.KindVideo, "DEV1", headers)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.ProtocolID == "" {
		t.Fatal("empty protocol id")
	}
	if result.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", result.FileCount)
	}
	if result.PDFURL != "/api/protocols/"+result.ProtocolID+"/pdf" {
		t.Errorf("PDFURL = %q", result.PDFURL)
	}

	records, _ := ledger.Load()
	if len(records) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(records))
	}
	rec := records[0]
	if rec.Kind != models.KindVideo || rec.DeviceID != "DEV1" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Files) != 1 || rec.Files[0].OriginalName != "inspection.mp4" {
		t.Errorf("unexpected files: %+v", rec.Files)
	}
	if rec.DocumentPath == "" {
		t.Fatal("record has no document path")
	}
	if _, err := os.Stat(rec.DocumentPath); err != nil {
		t.Errorf("document missing on disk: %v", err)
	}

	// The new protocol must be visible to a list call right away.
	list, err := svc.List("DEV1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != result.ProtocolID {
		t.Fatalf("created protocol not listed: %+v", list)
	}
}

func TestCreatePhotosSkipsInvalidFiles(t *testing.T) {
	svc, ledger := newTestService(t)
	headers := uploadHeaders(t, "photos", []testFile{
		{"a.jpg", []byte("jpegdata")},
		{"b.txt", []byte("textdata")},
	})

	result, err := svc.Create(models.KindPhotos, "DEV1", headers)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", result.FileCount)
	}

	records, _ := ledger.Load()
	if len(records) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(records))
	}
	files := records[0].Files
	if len(files) != 1 || files[0].OriginalName != "a.jpg" {
		t.Fatalf("expected only a.jpg recorded, got %+v", files)
	}
	if files[0].StoredName != result.ProtocolID+"_0.jpg" {
		t.Errorf("StoredName = %q", files[0].StoredName)
	}
}

func TestCreatePhotosAllInvalid(t *testing.T) {
	svc, ledger := newTestService(t)
	headers := uploadHeaders(t, "photos", []testFile{
		{"a.txt", []byte("x")},
		{"b.exe", []byte("y")},
	})

	_, err := svc.Create(models.KindPhotos, "DEV1", headers)
	if !errors.Is(err, ErrNoValidFiles) {
		t.Fatalf("expected ErrNoValidFiles, got %v", err)
	}

	records, _ := ledger.Load()
	if len(records) != 0 {
		t.Fatalf("no ledger record expected, got %d", len(records))
	}
}

func TestCreateVideoUnsupportedTypeIsFatal(t *testing.T) {
	svc, ledger := newTestService(t)
	headers := uploadHeaders(t, "video", []testFile{{"inspection.txt", []byte("x")}})

	_, err := svc.Create(models.KindVideo, "DEV1", headers)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	records, _ := ledger.Load()
	if len(records) != 0 {
		t.Fatalf("no ledger record expected, got %d", len(records))
	}
}

func TestCreateMissingDeviceID(t *testing.T) {
	svc, _ := newTestService(t)
	headers := uploadHeaders(t, "video", []testFile{{"inspection.mp4", []byte("x")}})

	if _, err := svc.Create(models.KindVideo, "", headers); !errors.Is(err, ErrMissingDeviceID) {
		t.Fatalf("expected ErrMissingDeviceID, got %v", err)
	}
}

func TestCreateNoFileSelected(t *testing.T) {
	svc, _ := newTestService(t)
	headers := []*multipart.FileHeader{{Filename: ""}}

	if _, err := svc.Create(models.KindPhotos, "DEV1", headers); !errors.Is(err, ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
}

func TestListSortedNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		headers := uploadHeaders(t, "photos", []testFile{{"a.jpg", []byte("x")}})
		result, err := svc.Create(models.KindPhotos, "DEV1", headers)
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, result.ProtocolID)
		time.Sleep(10 * time.Millisecond)
	}

	list, err := svc.List("DEV1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 protocols, got %d", len(list))
	}
	for i := 0; i < 3; i++ {
		if list[i].ID != ids[2-i] {
			t.Errorf("position %d: got %s, want %s", i, list[i].ID, ids[2-i])
		}
	}
}

func TestListIsolatesDevices(t *testing.T) {
	svc, _ := newTestService(t)

	headers := uploadHeaders(t, "photos", []testFile{{"a.jpg", []byte("x")}})
	if _, err := svc.Create(models.KindPhotos, "DEV-A", headers); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List("DEV-B")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("protocols leaked across devices: %+v", list)
	}
}

func TestListProjection(t *testing.T) {
	svc, _ := newTestService(t)

	headers := uploadHeaders(t, "screenshots", []testFile{{"shot.png", []byte("x")}})
	result, err := svc.Create(models.KindScreenshots, "DEV1", headers)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List("DEV1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	entry := list[0]
	if entry.Type != models.KindScreenshots {
		t.Errorf("Type = %q", entry.Type)
	}
	if entry.Number != shortNumber(result.ProtocolID) || len(entry.Number) != 8 {
		t.Errorf("Number = %q", entry.Number)
	}
	if _, err := time.Parse("02.01.2006 15:04:05", entry.Date); err != nil {
		t.Errorf("Date %q not in DD.MM.YYYY HH:MM:SS form: %v", entry.Date, err)
	}
	if entry.PDFURL != "/api/protocols/"+entry.ID+"/pdf" {
		t.Errorf("PDFURL = %q", entry.PDFURL)
	}
}

func TestListMissingDeviceID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.List(""); !errors.Is(err, ErrMissingDeviceID) {
		t.Fatalf("expected ErrMissingDeviceID, got %v", err)
	}
}

func TestDownloadIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	headers := uploadHeaders(t, "video", []testFile{{"inspection.mp4", []byte("videodata")}})
	result, err := svc.Create(models.KindVideo, "DEV1", headers)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.Download(result.ProtocolID)
	if err != nil {
		t.Fatalf("first Download: %v", err)
	}
	second, err := svc.Download(result.ProtocolID)
	if err != nil {
		t.Fatalf("second Download: %v", err)
	}

	a, err := os.ReadFile(first.DocumentPath)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	b, err := os.ReadFile(second.DocumentPath)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("repeated downloads returned different document content")
	}
}

func TestDownloadUnknownProtocol(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Download("no-such-id"); !errors.Is(err, ErrProtocolNotFound) {
		t.Fatalf("expected ErrProtocolNotFound, got %v", err)
	}
}

func TestDownloadMissingDocument(t *testing.T) {
	svc, ledger := newTestService(t)

	headers := uploadHeaders(t, "video", []testFile{{"inspection.mp4", []byte("x")}})
	result, err := svc.Create(models.KindVideo, "DEV1", headers)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	records, _ := ledger.Load()
	if err := os.Remove(records[0].DocumentPath); err != nil {
		t.Fatalf("remove document: %v", err)
	}

	if _, err := svc.Download(result.ProtocolID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
