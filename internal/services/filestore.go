package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/FixerMob/Protocol-Service/internal/models"
)

// ErrUnsupportedType is returned for uploads whose extension is not in the
// accepted set.
var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Upload categories, one directory per protocol kind.
const (
	CategoryVideos      = "videos"
	CategoryPhotos      = "photos"
	CategoryScreenshots = "screenshots"
)

// FileStore writes uploaded payloads to category subdirectories under a
// single base directory.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	for _, category := range []string{CategoryVideos, CategoryPhotos, CategoryScreenshots} {
		if err := os.MkdirAll(filepath.Join(baseDir, category), 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Store persists one uploaded file under uploads/{category}/. The stored name
// is derived from the protocol id; index >= 0 appends a position suffix for
// multi-file uploads. The returned size comes from a post-write stat, not
// from the client-declared header.
func (s *FileStore) Store(category, protocolID string, index int, header *multipart.FileHeader) (models.FileMetadata, error) {
	originalName := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return models.FileMetadata{}, ErrUnsupportedType
	}

	storedName := protocolID + ext
	if index >= 0 {
		storedName = fmt.Sprintf("%s_%d%s", protocolID, index, ext)
	}
	dstPath := filepath.Join(s.baseDir, category, storedName)

	src, err := header.Open()
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return models.FileMetadata{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return models.FileMetadata{}, fmt.Errorf("failed to close file: %w", err)
	}

	info, err := os.Stat(dstPath)
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("failed to stat stored file: %w", err)
	}

	return models.FileMetadata{
		OriginalName: originalName,
		StoredName:   storedName,
		Size:         info.Size(),
		StoragePath:  dstPath,
	}, nil
}

// sanitizeFilename strips any path components a client may have smuggled
// into the filename.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return filepath.Base(name)
}
