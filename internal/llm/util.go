// Package llm - util.go provides shared utilities for LLM prompt and response processing.
package llm

import (
	"strings"
	"unicode/utf8"
)

// CleanJSONBlock normalizes an LLM response down to its JSON payload.
// It strips markdown code fences plus any conversational preamble or
// trailing commentary around the first complete JSON object or array.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		// Handle generic ``` ... ``` blocks
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// If first line looks like a language identifier (no spaces, short), skip it
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Drop preamble and trailing prose around the payload
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	start, extract := objStart, extractJSONObject
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, extract = arrStart, extractJSONArray
	}
	if start >= 0 {
		if payload := extract(text[start:]); payload != "" {
			return payload
		}
	}

	return text
}

// extractJSONObject returns the first complete JSON object at the start of
// text, or "" if text does not begin with a balanced object.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the first complete JSON array at the start of
// text, or "" if text does not begin with a balanced array.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the matching close delimiter, ignoring
// delimiters inside JSON strings and escaped characters.
func extractBalanced(text string, opening, closing byte) string {
	if len(text) == 0 || text[0] != opening {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case opening:
			if !inString {
				depth++
			}
		case closing:
			if !inString {
				depth--
				if depth == 0 {
					return text[:i+1]
				}
			}
		}
	}

	return ""
}

// Truncate returns text cut to at most max bytes without splitting a UTF-8
// sequence. Prompt budgets for resume and job text are byte based.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
