package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, "", false, false)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrHTTPRequestFailed)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	// Create mock HTTP server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		html := `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Job Title</h1>
<p>Job description</p>
</main>
<footer>Footer</footer>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, "", false, false)
	require.NoError(t, err)

	assert.NotEmpty(t, cleanedText)
	require.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Contains(t, cleanedText, "Job Title")
	assert.Contains(t, cleanedText, "Job description")
	// Should not contain nav/footer
	assert.NotContains(t, cleanedText, "Nav")
	assert.NotContains(t, cleanedText, "Footer")
}

func TestIngestFromURL_Metadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<html><body><main><h1>Backend Engineer</h1><a href="/apply">Apply</a></main></body></html>`))
	}))
	defer server.Close()

	_, metadata, err := IngestFromURL(context.Background(), server.URL, "", false, false)
	require.NoError(t, err)
	require.NotNil(t, metadata)

	// Local test server is not a recognized job board
	assert.Equal(t, "unknown", metadata.Platform)
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
	// Relative links are resolved against the page URL
	assert.Contains(t, metadata.ExtractedLinks, server.URL+"/apply")
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	// Create mock server that returns 404
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, "", false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestIngestFromURL_NetworkError(t *testing.T) {
	// Use invalid URL that will fail to connect
	_, _, err := IngestFromURL(context.Background(), "http://localhost:99999/nonexistent", "", false, false)
	assert.Error(t, err)
}

func TestIngestFromURL_WithTestFixtures(t *testing.T) {
	// Test with HTML fixture
	testFile := "testdata/sample_job_html.html"
	htmlContent, err := os.ReadFile(testFile)
	require.NoError(t, err)

	// Create mock server serving the HTML
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(htmlContent)
	}))
	defer server.Close()

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, "", false, false)
	require.NoError(t, err)

	assert.NotEmpty(t, cleanedText)
	assert.NotNil(t, metadata)
	assert.Contains(t, cleanedText, "Senior Software Engineer")
	assert.Contains(t, cleanedText, "About the Role")
	assert.Contains(t, cleanedText, "Requirements")
	assert.Contains(t, cleanedText, "distributed systems")
	// Application form and footer are noise
	assert.NotContains(t, cleanedText, "Submit application")
	assert.NotContains(t, cleanedText, "All rights reserved")
}

func TestFormatExtractedContent(t *testing.T) {
	extracted := &ExtractedContent{
		TeamContext:      "Platform team of eight engineers.",
		Requirements:     []string{"5+ years of Go", "PostgreSQL in production"},
		Responsibilities: []string{"Design backend services"},
		NiceToHave:       []string{"gRPC experience"},
	}

	text := FormatExtractedContent(extracted)

	assert.True(t, strings.HasPrefix(text, "Team Context:"))
	assert.Contains(t, text, "Team Context:\nPlatform team of eight engineers.")
	assert.Contains(t, text, "Requirements:\n- 5+ years of Go\n- PostgreSQL in production")
	assert.Contains(t, text, "Responsibilities:\n- Design backend services")
	assert.Contains(t, text, "Nice to Have:\n- gRPC experience")
}

func TestFormatExtractedContent_SkipsEmptySections(t *testing.T) {
	extracted := &ExtractedContent{
		Requirements: []string{"Go experience"},
	}

	text := FormatExtractedContent(extracted)

	assert.Contains(t, text, "Requirements:")
	assert.NotContains(t, text, "Team Context:")
	assert.NotContains(t, text, "Responsibilities:")
	assert.NotContains(t, text, "Nice to Have:")
}

func TestFormatExtractedContent_Empty(t *testing.T) {
	text := FormatExtractedContent(&ExtractedContent{})
	assert.Empty(t, text)
}
