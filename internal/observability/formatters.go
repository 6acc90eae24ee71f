// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// clip shortens s to max characters, marking the cut with an ellipsis.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox draws a titled box around content, one content line per row.
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	row := func(line string) {
		_, _ = fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	_, _ = fmt.Fprintf(p.out, "┌%s┐\n", border)
	row(title)
	_, _ = fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		row(line)
	}
	_, _ = fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPlan outputs a human-readable summary of the interview plan.
func (p *Printer) PrintPlan(plan *types.InterviewPlan) {
	if plan == nil || len(plan.Questions) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:    %s\n", plan.Source)
	fmt.Fprintf(&sb, "Questions: %d\n\n", len(plan.Questions))

	for i, q := range plan.Questions[:min(len(plan.Questions), maxItemsToShow)] {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, clip(q.Question, 45))
		if q.Category != "" {
			fmt.Fprintf(&sb, "   [%s]\n", q.Category)
		}
	}
	if hidden := len(plan.Questions) - maxItemsToShow; hidden > 0 {
		fmt.Fprintf(&sb, "\n... and %d more questions", hidden)
	}

	p.printBox("INTERVIEW PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNote outputs the analysis recorded for a single answer.
func (p *Printer) PrintNote(note *types.InterviewNote) {
	if note == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", clip(note.Question, 45))
	fmt.Fprintf(&sb, "Score:    %d/10\n", note.Score)
	if note.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", note.Category)
	}

	if note.Analysis != "" {
		sb.WriteString("\n")
		lines := strings.Split(note.Analysis, "\n")
		for _, line := range lines[:min(len(lines), maxItemsToShow)] {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		if hidden := len(lines) - maxItemsToShow; hidden > 0 {
			fmt.Fprintf(&sb, "... and %d more lines\n", hidden)
		}
	}

	p.printBox("RESPONSE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the end-of-interview summary: totals, score
// distribution, and per-category averages.
func (p *Printer) PrintSummary(notes []*types.InterviewNote) {
	rule := strings.Repeat("=", boxWidth)
	_, _ = fmt.Fprintf(p.out, "\n%s\nINTERVIEW SUMMARY\n%s\n", rule, rule)

	if len(notes) == 0 {
		_, _ = fmt.Fprintln(p.out, "No interview data available.")
		return
	}

	stats := report.Summary(notes)
	_, _ = fmt.Fprintf(p.out, "Total Questions: %d\n", stats.TotalQuestions)
	_, _ = fmt.Fprintf(p.out, "Average Score: %.1f/10\n", stats.AverageScore)
	_, _ = fmt.Fprintf(p.out, "Highest Score: %d/10\n", stats.HighestScore)
	_, _ = fmt.Fprintf(p.out, "Lowest Score: %d/10\n", stats.LowestScore)

	_, _ = fmt.Fprintf(p.out, "\n%s\n", report.FormatScoreDistribution(notes))
	_, _ = fmt.Fprintf(p.out, "%s\n", report.FormatCategoryBreakdown(notes))
}
