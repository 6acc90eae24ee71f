package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// chunkSeparators is the boundary priority for splitting: paragraph,
// line, word, then individual characters as a last resort.
var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// Chunk is a contiguous span of document text sized for embedding.
type Chunk struct {
	Content string
	Source  Source
}

// Splitter splits documents into overlapping chunks for the context index.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter returns a Splitter. Sizes are measured in runes and the
// overlap must be strictly less than the chunk size.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be less than chunk size %d", chunkOverlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split splits each document into chunks of at most the configured size,
// preferring paragraph, then line, then word boundaries. Each chunk keeps
// its document's source tag.
func (s *Splitter) Split(docs []Document) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for _, piece := range s.SplitText(doc.Content) {
			chunks = append(chunks, Chunk{Content: piece, Source: doc.Source})
		}
	}
	return chunks
}

// SplitText splits a single text into overlapping pieces.
func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitRecursive(text, chunkSeparators)
}

func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	// Pick the highest-priority separator present in the text
	sep := ""
	var remaining []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			remaining = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.splitRunes(text)
	}

	var final []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			final = append(final, s.mergeSplits(pending, sep)...)
			pending = nil
		}
	}

	for _, piece := range strings.Split(text, sep) {
		if utf8.RuneCountInString(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// Piece is still too large: split it with lower-priority separators
		flush()
		final = append(final, s.splitRecursive(piece, remaining)...)
	}
	flush()

	return final
}

// mergeSplits greedily packs pieces into chunks up to the size limit,
// carrying trailing pieces forward to provide the configured overlap.
func (s *Splitter) mergeSplits(splits []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var current []string
	currentLen := 0

	joinedLen := func(addition int) int {
		total := currentLen + addition
		if len(current) > 0 {
			total += sepLen
		}
		return total
	}

	for _, split := range splits {
		splitLen := utf8.RuneCountInString(split)

		if joinedLen(splitLen) > s.chunkSize && len(current) > 0 {
			if chunk := strings.Join(current, sep); strings.TrimSpace(chunk) != "" {
				chunks = append(chunks, chunk)
			}
			// Retain trailing pieces within the overlap budget
			for len(current) > 0 && (currentLen > s.chunkOverlap || joinedLen(splitLen) > s.chunkSize) {
				currentLen -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					currentLen -= sepLen
				}
				current = current[1:]
			}
		}

		if len(current) > 0 {
			currentLen += sepLen
		}
		current = append(current, split)
		currentLen += splitLen
	}

	if chunk := strings.Join(current, sep); strings.TrimSpace(chunk) != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitRunes hard-splits text into fixed windows with overlap.
func (s *Splitter) splitRunes(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.chunkOverlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if piece := string(runes[start:end]); strings.TrimSpace(piece) != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
