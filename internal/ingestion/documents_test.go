package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadResume_PlainText(t *testing.T) {
	path := writeTempFile(t, "resume.txt", "Jane Doe\nSenior Engineer\n\n- Built payment systems in Go\n- Led a team of five")

	docs, err := LoadResume(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, SourceResume, docs[0].Source)
	assert.Equal(t, path, docs[0].Path)
	assert.Equal(t, 0, docs[0].Page)
	assert.Contains(t, docs[0].Content, "Jane Doe")
	assert.Contains(t, docs[0].Content, "payment systems")
}

func TestLoadResume_NotFound(t *testing.T) {
	_, err := LoadResume(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "document not found")
}

func TestLoadResume_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "resume.txt", "   \n\n\t\n")

	_, err := LoadResume(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "no text")
}

func TestLoadResume_BinaryFile(t *testing.T) {
	binary := make([]byte, 200)
	for i := range binary {
		binary[i] = byte(i % 8) // control characters
	}
	path := writeTempFile(t, "resume.txt", string(binary))

	_, err := LoadResume(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binary")
}

func TestLoadResume_CorruptPDF(t *testing.T) {
	// PDF magic bytes but no valid structure. Fails whether or not
	// pdftotext is installed.
	path := writeTempFile(t, "resume.pdf", "%PDF-1.4\nnot a real pdf")

	_, err := LoadResume(path)
	require.Error(t, err)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadJobDescription(t *testing.T) {
	path := writeTempFile(t, "job.txt", "Senior Software Engineer\n\nRequirements:\n- Go\n- PostgreSQL")

	docs, err := LoadJobDescription(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, SourceJob, docs[0].Source)
	assert.Equal(t, 0, docs[0].Page)
	assert.Contains(t, docs[0].Content, "Senior Software Engineer")
}

func TestLoadJobDescription_RejectsPDF(t *testing.T) {
	path := writeTempFile(t, "job.pdf", "%PDF-1.4\ncontent")

	_, err := LoadJobDescription(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be plain text")
}

func TestLoadJobDescription_NotFound(t *testing.T) {
	_, err := LoadJobDescription(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoadDocuments(t *testing.T) {
	resumePath := writeTempFile(t, "resume.txt", "Jane Doe, backend engineer.")
	jobPath := writeTempFile(t, "job.txt", "Hiring a backend engineer.")

	docs, err := LoadDocuments(resumePath, jobPath)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Resume documents come first
	assert.Equal(t, SourceResume, docs[0].Source)
	assert.Equal(t, SourceJob, docs[1].Source)
}

func TestExtractContent(t *testing.T) {
	docs := []Document{
		{Content: "Resume page one", Source: SourceResume},
		{Content: "Resume page two", Source: SourceResume},
		{Content: "Job description", Source: SourceJob},
	}

	resumeText, jobText := ExtractContent(docs)

	assert.Equal(t, "Resume page one\nResume page two", resumeText)
	assert.Equal(t, "Job description", jobText)
}

func TestExtractContent_Empty(t *testing.T) {
	resumeText, jobText := ExtractContent(nil)
	assert.Empty(t, resumeText)
	assert.Empty(t, jobText)
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		path string
		raw  string
		want bool
	}{
		{"pdf extension", "resume.pdf", "anything", true},
		{"uppercase extension", "resume.PDF", "anything", true},
		{"magic bytes with txt extension", "resume.txt", "%PDF-1.7\n...", true},
		{"plain text", "resume.txt", "Jane Doe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPDF(tt.path, []byte(tt.raw)))
		})
	}
}

func TestIsBinaryData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain text", "Jane Doe\nSenior Engineer", false},
		{"empty", "", false},
		{"zip archive", "PK\x03\x04rest-of-archive", true},
		{"control characters", "\x00\x01\x02\x03\x00\x01\x02\x03", true},
		{"text with tabs and newlines", "col1\tcol2\nval1\tval2\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBinaryData(tt.content))
		})
	}
}
