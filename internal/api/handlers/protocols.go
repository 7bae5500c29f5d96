package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/FixerMob/Protocol-Service/internal/models"
	"github.com/FixerMob/Protocol-Service/internal/services"
	"github.com/gin-gonic/gin"
)

// ProtocolHandlers exposes the protocol service over HTTP.
type ProtocolHandlers struct {
	service *services.ProtocolService
}

func NewProtocolHandlers(service *services.ProtocolService) *ProtocolHandlers {
	return &ProtocolHandlers{service: service}
}

// UploadVideo accepts a single video file in the "video" form field.
func (h *ProtocolHandlers) UploadVideo(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Видео файл не найден"})
		return
	}

	deviceID := c.PostForm("device_id")
	result, err := h.service.Create(models.KindVideo, deviceID, []*multipart.FileHeader{file})
	if err != nil {
		respondUploadError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"protocol_id": result.ProtocolID,
		"message":     "Видео успешно загружено",
		"pdf_url":     result.PDFURL,
	})
}

// UploadPhotos accepts multiple files in the "photos" form field. Files with
// unsupported extensions are skipped, not fatal.
func (h *ProtocolHandlers) UploadPhotos(c *gin.Context) {
	h.uploadBatch(c, models.KindPhotos, "photos", "Фото файлы не найдены", "Загружено %d фото")
}

// UploadScreenshots accepts multiple files in the "screenshots" form field.
func (h *ProtocolHandlers) UploadScreenshots(c *gin.Context) {
	h.uploadBatch(c, models.KindScreenshots, "screenshots", "Скриншоты не найдены", "Загружено %d скриншотов")
}

func (h *ProtocolHandlers) uploadBatch(c *gin.Context, kind, field, missingMsg, countFormat string) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg})
		return
	}
	files := form.File[field]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg})
		return
	}

	deviceID := c.PostForm("device_id")
	result, err := h.service.Create(kind, deviceID, files)
	if err != nil {
		respondUploadError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"protocol_id": result.ProtocolID,
		"message":     fmt.Sprintf(countFormat, result.FileCount),
		"pdf_url":     result.PDFURL,
	})
}

// ListProtocols returns the device's protocols, newest first.
func (h *ProtocolHandlers) ListProtocols(c *gin.Context) {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id обязателен"})
		return
	}

	protocols, err := h.service.List(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить протоколы"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"protocols": protocols,
	})
}

// DownloadPDF streams the generated protocol document as an attachment.
func (h *ProtocolHandlers) DownloadPDF(c *gin.Context) {
	protocolID := c.Param("id")

	record, err := h.service.Download(protocolID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PDF файл не найден"})
		case errors.Is(err, services.ErrProtocolNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Протокол не найден"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось загрузить протокол"})
		}
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=protocol_"+record.ID+".pdf")
	c.Header("Content-Type", "application/pdf")
	c.File(record.DocumentPath)
}

func respondUploadError(c *gin.Context, err error, multi bool) {
	switch {
	case errors.Is(err, services.ErrMissingDeviceID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id обязателен"})
	case errors.Is(err, services.ErrNoFileSelected):
		msg := "Файл не выбран"
		if multi {
			msg = "Файлы не выбраны"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, services.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимый тип файла"})
	case errors.Is(err, services.ErrNoValidFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось загрузить ни одного файла"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать протокол"})
	}
}
