// Package export writes interview sessions and reports to timestamped files
// and manages their retention.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/session"
)

// fileTimestamp is the layout used in generated file names.
const fileTimestamp = "20060102_150405"

// SaveSessionFile writes the session state as indented JSON to
// outputDir/interview_session_<timestamp>.json and returns the path.
// The retrieval index is not part of the file; a loaded session runs with
// empty retrieval context.
func SaveSessionFile(state *session.State, outputDir string) (string, error) {
	if state == nil {
		return "", fmt.Errorf("session state is nil")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("interview_session_%s.json", time.Now().Format(fileTimestamp))
	path := filepath.Join(outputDir, filename)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}

	fmt.Printf("📁 Interview session saved to: %s\n", path)
	return path, nil
}

// LoadSessionFile reads a session previously written by SaveSessionFile.
func LoadSessionFile(path string) (*session.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &state, nil
}

// ExportReport writes a report to outputDir/interview_report_<timestamp>.txt
// with a generated-at header and returns the path.
func ExportReport(report string, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("interview_report_%s.txt", now.Format(fileTimestamp))
	path := filepath.Join(outputDir, filename)

	var sb strings.Builder
	sb.WriteString("INTERVIEW REPORT\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format("2006-01-02 15:04:05")))
	sb.WriteString(report)

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	fmt.Printf("📄 Report exported to: %s\n", path)
	return path, nil
}

// CleanOldFiles deletes regular files in directory older than maxAgeDays
// and returns how many were removed. A missing directory is not an error.
func CleanOldFiles(directory string, maxAgeDays int) (int, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(directory, entry.Name())); err != nil {
				continue
			}
			deleted++
		}
	}

	if deleted > 0 {
		fmt.Printf("🧹 Cleaned %d old files from %s\n", deleted, directory)
	}
	return deleted, nil
}
