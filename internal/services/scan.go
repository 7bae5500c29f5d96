package services

import (
	"log"
	"os"

	clamd "github.com/dutchcoders/go-clamd"
)

// Scanner checks stored uploads against ClamAV. Scans run in the background
// after the upload response is sent and never fail a request.
type Scanner struct {
	clamAvURL string
}

func NewScanner(clamAvURL string) *Scanner {
	return &Scanner{clamAvURL: clamAvURL}
}

// ScanFile scans one stored upload. Infected files are removed from disk;
// the ledger record is left untouched.
func (s *Scanner) ScanFile(path string) {
	c := clamd.NewClamd(s.clamAvURL)
	response, err := c.ScanFile(path)
	if err != nil {
		log.Printf("Scan failed for %s: %v", path, err)
		return
	}

	for res := range response {
		if res.Status == clamd.RES_FOUND {
			log.Printf("Virus detected in %s: %s", path, res.Description)
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to delete infected file %s: %v", path, err)
			}
		}
	}
}
