package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	metadata := NewMetadata("posting text", "https://example.com/job")

	assert.Equal(t, "https://example.com/job", metadata.URL)
	assert.Len(t, metadata.Hash, 64) // SHA256 hex digest

	parsed, err := time.Parse(time.RFC3339, metadata.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)

	// Same content hashes identically, different content differently
	assert.Equal(t, metadata.Hash, NewMetadata("posting text", "").Hash)
	assert.NotEqual(t, metadata.Hash, NewMetadata("other text", "").Hash)
}

func TestMetadata_JSONRoundTrip(t *testing.T) {
	metadata := &Metadata{
		URL:            "https://example.com/job",
		Timestamp:      "2026-01-01T00:00:00Z",
		Hash:           "abcd1234",
		Platform:       "greenhouse",
		Company:        "Acme Corp",
		AdminInfo:      map[string]string{"Salary": "$150k-$180k"},
		ExtractedLinks: []string{"https://example.com/apply"},
	}

	data, err := metadata.ToJSON()
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *metadata, decoded)
}

func TestMetadata_OmitsEmptyFields(t *testing.T) {
	metadata := &Metadata{Timestamp: "2026-01-01T00:00:00Z", Hash: "abcd1234"}

	data, err := metadata.ToJSON()
	require.NoError(t, err)

	// Optional fields stay out of the sidecar file when unset
	for _, field := range []string{"platform", "company", "admin_info", "extracted_links", "url"} {
		assert.NotContains(t, string(data), field)
	}
}
