package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata records the provenance of an ingested job posting: where it
// came from, when, and a content hash for change detection. The optional
// fields are filled in by platform detection and LLM extraction.
type Metadata struct {
	URL            string            `json:"url,omitempty"`
	Timestamp      string            `json:"timestamp"` // RFC3339
	Hash           string            `json:"hash"`      // SHA256 hex of the cleaned text
	Platform       string            `json:"platform,omitempty"`
	Company        string            `json:"company,omitempty"`
	AboutCompany   string            `json:"about_company,omitempty"`
	AdminInfo      map[string]string `json:"admin_info,omitempty"`
	ExtractedLinks []string          `json:"extracted_links,omitempty"`
}

// NewMetadata stamps the content with the current time and its hash.
func NewMetadata(content string, url string) *Metadata {
	sum := sha256.Sum256([]byte(content))
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      hex.EncodeToString(sum[:]),
	}
}

// ToJSON marshals the metadata as indented JSON for the .meta.json file.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
