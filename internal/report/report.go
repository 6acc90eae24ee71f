// Package report generates the final interview report and summary
// statistics from the accumulated interview notes.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// resumePromptLimit and jobPromptLimit cap the prompt inputs to stay
	// inside token limits.
	resumePromptLimit = 2048
	jobPromptLimit    = 1024

	// FailurePrefix marks a degraded report produced when generation fails.
	FailurePrefix = "Report generation failed"
)

// Generator produces interview reports with an LLM.
type Generator struct {
	client llm.Client
}

// NewGenerator returns a Generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces the markdown interview report. It never fails: provider
// errors yield a sentinel string prefixed with FailurePrefix so the session
// can still complete.
func (g *Generator) Generate(ctx context.Context, resumeText, jobText string, notes []*types.InterviewNote) string {
	if g.client == nil {
		return fmt.Sprintf("%s: no LLM client configured", FailurePrefix)
	}

	template, err := prompts.Get("interview.json", "report")
	if err != nil {
		return fmt.Sprintf("%s: %v", FailurePrefix, err)
	}
	prompt := prompts.Format(template, map[string]string{
		"ResumeContent":  llm.Truncate(resumeText, resumePromptLimit),
		"JobDescription": llm.Truncate(jobText, jobPromptLimit),
		"InterviewNotes": FormatNotes(notes),
	})

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return fmt.Sprintf("%s: %v", FailurePrefix, err)
	}
	return text
}

// IsFailure reports whether a stored report is the degraded sentinel.
func IsFailure(reportText string) bool {
	return strings.HasPrefix(reportText, FailurePrefix)
}

// FormatNotes renders the notes for the report prompt, one block per
// question separated by dashed rules.
func FormatNotes(notes []*types.InterviewNote) string {
	var sb strings.Builder
	for i, note := range notes {
		sb.WriteString(fmt.Sprintf("\nQuestion %d: %s\n", i+1, note.Question))
		sb.WriteString(fmt.Sprintf("Response: %s\n", note.Response))
		sb.WriteString(fmt.Sprintf("Score: %d/10\n", note.Score))
		sb.WriteString(fmt.Sprintf("Analysis: %s\n", note.Analysis))
		sb.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return sb.String()
}

// OverallScore returns the mean score across notes, or 0 when there are
// none.
func OverallScore(notes []*types.InterviewNote) float64 {
	if len(notes) == 0 {
		return 0
	}

	total := 0
	for _, note := range notes {
		total += note.Score
	}
	return float64(total) / float64(len(notes))
}

// Summary computes summary statistics across notes. Empty input yields the
// zero value. Categories are reported in first-seen order.
func Summary(notes []*types.InterviewNote) types.SummaryStats {
	if len(notes) == 0 {
		return types.SummaryStats{}
	}

	stats := types.SummaryStats{
		TotalQuestions: len(notes),
		HighestScore:   notes[0].Score,
		LowestScore:    notes[0].Score,
	}

	total := 0
	seen := make(map[types.QuestionCategory]bool)
	for _, note := range notes {
		total += note.Score
		if note.Score > stats.HighestScore {
			stats.HighestScore = note.Score
		}
		if note.Score < stats.LowestScore {
			stats.LowestScore = note.Score
		}

		category := note.Category
		if category == "" {
			category = types.CategoryGeneral
		}
		if !seen[category] {
			seen[category] = true
			stats.CategoriesCovered = append(stats.CategoriesCovered, category)
		}
	}
	stats.AverageScore = float64(total) / float64(len(notes))

	return stats
}

// FormatScoreDistribution renders a bar per score value, highest first.
func FormatScoreDistribution(notes []*types.InterviewNote) string {
	if len(notes) == 0 {
		return "No scores available"
	}

	counts := make(map[int]int)
	for _, note := range notes {
		counts[note.Score]++
	}

	scores := make([]int, 0, len(counts))
	for score := range counts {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	var sb strings.Builder
	sb.WriteString("Score Distribution:\n")
	for _, score := range scores {
		count := counts[score]
		sb.WriteString(fmt.Sprintf("%d/10: %s (%d)\n", score, strings.Repeat("█", count), count))
	}
	return sb.String()
}

// CategoryAverages averages note scores per question category. Notes
// without a category count toward "general". Returns nil for no notes.
func CategoryAverages(notes []*types.InterviewNote) map[string]float64 {
	if len(notes) == 0 {
		return nil
	}
	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, note := range notes {
		category := string(note.Category)
		if category == "" {
			category = string(types.CategoryGeneral)
		}
		totals[category] += note.Score
		counts[category]++
	}
	averages := make(map[string]float64, len(totals))
	for category, total := range totals {
		averages[category] = float64(total) / float64(counts[category])
	}
	return averages
}

// FormatCategoryBreakdown renders per-category counts and average scores in
// first-seen order.
func FormatCategoryBreakdown(notes []*types.InterviewNote) string {
	if len(notes) == 0 {
		return "No categories available"
	}

	type categoryStats struct {
		count int
		total int
	}
	stats := make(map[types.QuestionCategory]*categoryStats)
	var order []types.QuestionCategory

	for _, note := range notes {
		category := note.Category
		if category == "" {
			category = types.CategoryGeneral
		}
		if _, ok := stats[category]; !ok {
			stats[category] = &categoryStats{}
			order = append(order, category)
		}
		stats[category].count++
		stats[category].total += note.Score
	}

	var sb strings.Builder
	sb.WriteString("Category Breakdown:\n")
	for _, category := range order {
		s := stats[category]
		avg := float64(s.total) / float64(s.count)
		sb.WriteString(fmt.Sprintf("%s: %d questions, avg score: %.1f/10\n", titleCase(string(category)), s.count, avg))
	}
	return sb.String()
}

// titleCase uppercases the first letter of each word, where words are
// separated by any non-letter ("problem_solving" becomes "Problem_Solving").
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			sb.WriteRune(unicode.ToUpper(r))
		case isLetter:
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return sb.String()
}
