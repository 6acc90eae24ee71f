package ingestion

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// minExtractedTextLength is the minimum text length for a successful PDF extraction
	minExtractedTextLength = 50
	// binarySampleSize is the number of bytes sampled for binary detection
	binarySampleSize = 1000
	// binaryThreshold is the proportion of non-printable characters that indicates binary data
	binaryThreshold = 0.3
)

// Source identifies which input a document was loaded from.
type Source string

const (
	// SourceResume marks documents loaded from the candidate resume.
	SourceResume Source = "resume"
	// SourceJob marks documents loaded from the job description.
	SourceJob Source = "job_description"
)

// Document is a single unit of loaded input text. PDF resumes yield one
// document per page; plain text inputs yield a single document.
type Document struct {
	Content string
	Source  Source
	Path    string
	Page    int // 1-based for PDF pages, 0 for plain text
}

// NotFoundError is returned when an input file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.Path)
}

// LoadError is returned when a document exists but cannot be read or parsed.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadDocuments loads the resume and job description from disk.
// The resume may be a PDF (detected by extension or magic bytes) or plain
// text. The job description must be plain text.
func LoadDocuments(resumePath, jobPath string) ([]Document, error) {
	resumeDocs, err := LoadResume(resumePath)
	if err != nil {
		return nil, err
	}

	jobDocs, err := LoadJobDescription(jobPath)
	if err != nil {
		return nil, err
	}

	return append(resumeDocs, jobDocs...), nil
}

// LoadResume loads the candidate resume, extracting text from PDFs with
// pdftotext. Returns one document per PDF page, or a single document for
// plain text input.
func LoadResume(path string) ([]Document, error) {
	raw, err := readDocumentFile(path)
	if err != nil {
		return nil, err
	}

	if isPDF(path, raw) {
		return extractPDFPages(path)
	}

	text := CleanText(string(raw))
	if text == "" {
		return nil, &LoadError{Path: path, Message: "file contains no text"}
	}
	if isBinaryData(string(raw)) {
		return nil, &LoadError{Path: path, Message: "file appears to be binary, not text or PDF"}
	}

	return []Document{{Content: text, Source: SourceResume, Path: path}}, nil
}

// LoadJobDescription loads the job description as plain text.
func LoadJobDescription(path string) ([]Document, error) {
	raw, err := readDocumentFile(path)
	if err != nil {
		return nil, err
	}

	if isPDF(path, raw) {
		return nil, &LoadError{Path: path, Message: "job description must be plain text, got a PDF"}
	}
	if isBinaryData(string(raw)) {
		return nil, &LoadError{Path: path, Message: "file appears to be binary, not text"}
	}

	text := CleanText(string(raw))
	if text == "" {
		return nil, &LoadError{Path: path, Message: "file contains no text"}
	}

	return []Document{{Content: text, Source: SourceJob, Path: path}}, nil
}

// ExtractContent joins document content per source with newlines.
func ExtractContent(docs []Document) (resumeText, jobText string) {
	var resumeParts, jobParts []string
	for _, doc := range docs {
		switch doc.Source {
		case SourceResume:
			resumeParts = append(resumeParts, doc.Content)
		case SourceJob:
			jobParts = append(jobParts, doc.Content)
		}
	}
	return strings.Join(resumeParts, "\n"), strings.Join(jobParts, "\n")
}

func readDocumentFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &LoadError{Path: path, Message: "read failed", Cause: err}
	}
	return raw, nil
}

// isPDF reports whether the file is a PDF by extension or magic bytes.
func isPDF(path string, raw []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}
	return strings.HasPrefix(string(raw), "%PDF-")
}

// extractPDFPages extracts text from a PDF using pdftotext (poppler-utils),
// splitting on form feeds to recover page boundaries.
func extractPDFPages(path string) ([]Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "PDF extraction requires 'pdftotext' (install poppler-utils)",
			Cause:   err,
		}
	}

	text := string(output)
	if len(strings.TrimSpace(text)) < minExtractedTextLength {
		return nil, &LoadError{Path: path, Message: "extracted text is too short, likely a failed extraction"}
	}

	var docs []Document
	for i, page := range strings.Split(text, "\f") {
		cleaned := CleanText(page)
		if cleaned == "" {
			continue
		}
		docs = append(docs, Document{
			Content: cleaned,
			Source:  SourceResume,
			Path:    path,
			Page:    i + 1,
		})
	}

	if len(docs) == 0 {
		return nil, &LoadError{Path: path, Message: "no text extracted from PDF"}
	}

	return docs, nil
}

// isBinaryData checks if content appears to be binary rather than text.
func isBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	// ZIP magic number (DOCX and friends)
	if strings.HasPrefix(content, "PK") {
		return true
	}

	sampleSize := binarySampleSize
	if len(content) < sampleSize {
		sampleSize = len(content)
	}
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > binaryThreshold
}
