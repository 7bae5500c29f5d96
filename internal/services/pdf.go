package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FixerMob/Protocol-Service/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// Page layout in millimeters (A4 portrait).
const (
	pdfLeftMargin   = 18.0
	pdfTopMargin    = 18.0
	pdfBottomMargin = 18.0
	pdfMetaSpacing  = 9.0
	pdfLineSpacing  = 7.0
)

// PDFRenderer generates the inspection protocol document for a record.
type PDFRenderer struct {
	outputDir string
}

func NewPDFRenderer(outputDir string) (*PDFRenderer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create protocol directory: %w", err)
	}
	return &PDFRenderer{outputDir: outputDir}, nil
}

// Render writes protocols/{id}.pdf: a title, a metadata block and one
// enumerated line per uploaded file. The output path is deterministic for a
// given protocol id, so re-rendering overwrites the previous document.
func (r *PDFRenderer) Render(protocolID, typeLabel, deviceID string, files []models.FileMetadata) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 20)
	y := pdfTopMargin
	pdf.Text(pdfLeftMargin, y, "Inspection Protocol")

	y += 2 * pdfMetaSpacing
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pdfLeftMargin, y, "Protocol number: "+protocolID)
	y += pdfMetaSpacing
	pdf.Text(pdfLeftMargin, y, "Protocol type: "+typeLabel)
	y += pdfMetaSpacing
	pdf.Text(pdfLeftMargin, y, "Device ID: "+deviceID)
	y += pdfMetaSpacing
	pdf.Text(pdfLeftMargin, y, "Created: "+time.Now().Format("02.01.2006 15:04:05"))
	y += pdfMetaSpacing + pdfLineSpacing

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pdfLeftMargin, y, "Uploaded files:")
	y += pdfMetaSpacing
	pdf.SetFont("Helvetica", "", 10)

	for i, file := range files {
		sizeMB := float64(file.Size) / (1024 * 1024)
		pdf.Text(pdfLeftMargin, y, fmt.Sprintf("%d. %s (%.2f MB)", i+1, file.OriginalName, sizeMB))
		y += pdfLineSpacing
		if y > pageHeight-pdfBottomMargin {
			pdf.AddPage()
			y = pdfTopMargin
		}
	}

	outPath := filepath.Join(r.outputDir, protocolID+".pdf")
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("failed to render protocol PDF: %w", err)
	}
	return outPath, nil
}
