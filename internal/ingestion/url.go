package ingestion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/interview-coach/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches a job posting, extracts and cleans its main text,
// and returns it with metadata for the session record. Platform detection
// picks job-board-specific selectors; when useBrowser is set, pages whose
// static HTML carries too little text are re-rendered headlessly. With an
// apiKey, the cleaned text is additionally run through structured LLM
// extraction so the question planner sees requirements rather than page
// chrome; extraction failure falls back to the cleaned text.
func IngestFromURL(ctx context.Context, urlStr string, apiKey string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(textContent))
	}

	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		textContent = browserFallback(ctx, urlStr, textContent, contentSelectors, noiseSelectors, verbose)
	}

	cleanedText := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleanedText))
	}

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)
	metadata.ExtractedLinks = fetch.ExtractLinks(result.HTML, urlStr)

	if apiKey != "" {
		extracted, err := ExtractWithLLM(ctx, cleanedText, apiKey)
		if err != nil {
			if verbose {
				log.Printf("[VERBOSE] LLM extraction failed: %v, using cleaned text", err)
			}
		} else {
			if verbose {
				log.Printf("[VERBOSE] LLM extraction: %d requirements, %d responsibilities, %d nice-to-have",
					len(extracted.Requirements), len(extracted.Responsibilities), len(extracted.NiceToHave))
			}
			cleanedText = FormatExtractedContent(extracted)
			metadata.AdminInfo = extracted.AdminInfo
			metadata.Company = extracted.Company
			metadata.AboutCompany = extracted.AboutCompany
		}
	}

	return cleanedText, metadata, nil
}

// browserFallback re-renders the page headlessly and re-extracts its text.
// Any failure returns the original HTTP-fetched text; the browser is an
// enhancement, never a requirement.
func browserFallback(ctx context.Context, urlStr, httpText string, contentSelectors []string, noiseSelectors []string, verbose bool) string {
	if verbose {
		log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
			len(httpText), fetch.MinContentLength)
	}

	html, err := fetch.BrowserSimple(ctx, urlStr, verbose)
	if err != nil {
		if verbose {
			log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", err)
		}
		return httpText
	}

	rendered, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		if verbose {
			log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
		}
		return httpText
	}
	if verbose {
		log.Printf("[VERBOSE] Browser extracted text: %d chars", len(rendered))
	}
	return rendered
}

// FormatExtractedContent renders the structured extraction as the text the
// planner and index consume: team context first, then bulleted sections.
func FormatExtractedContent(extracted *ExtractedContent) string {
	var sb strings.Builder

	if extracted.TeamContext != "" {
		sb.WriteString("Team Context:\n")
		sb.WriteString(extracted.TeamContext)
		sb.WriteString("\n\n")
	}

	writeSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(heading + ":\n")
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}
		sb.WriteString("\n")
	}
	writeSection("Requirements", extracted.Requirements)
	writeSection("Responsibilities", extracted.Responsibilities)
	writeSection("Nice to Have", extracted.NiceToHave)

	return sb.String()
}
