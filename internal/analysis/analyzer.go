// Package analysis evaluates candidate answers against the interview
// context. Each answer is scored 1-10 by the LLM; analysis never fails the
// interview loop, it degrades to a sentinel text instead.
package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// DefaultScore is used when the analysis carries no parseable SCORE line.
	DefaultScore = 5
	// MinScore and MaxScore bound the recorded score.
	MinScore = 1
	MaxScore = 10

	// historyWindow is how many trailing conversation turns are included
	// in the analysis prompt.
	historyWindow = 6

	// NoResponseText is recorded when the candidate gave a blank answer.
	NoResponseText = "No response provided"
)

// Analysis is the outcome of analyzing one answer.
type Analysis struct {
	Text string
	// Degraded marks provider failures where Text is a placeholder rather
	// than a real analysis.
	Degraded bool
}

// Analyzer scores candidate answers with an LLM.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer returns an Analyzer backed by the given client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze evaluates an answer in the context of the question, retrieved
// resume/job chunks, and recent conversation history. Blank answers yield
// NoResponseText; provider failures yield a degraded placeholder. The
// returned text is always non-empty.
func (a *Analyzer) Analyze(ctx context.Context, question, answer, ragContext string, history []types.ConversationTurn) Analysis {
	if strings.TrimSpace(answer) == "" {
		return Analysis{Text: NoResponseText}
	}

	if a.client == nil {
		return Analysis{Text: "Analysis failed: no LLM client configured", Degraded: true}
	}

	template, err := prompts.Get("interview.json", "analysis")
	if err != nil {
		return Analysis{Text: fmt.Sprintf("Analysis failed: %v", err), Degraded: true}
	}
	prompt := prompts.Format(template, map[string]string{
		"Question":            question,
		"Response":            answer,
		"Context":             ragContext,
		"ConversationHistory": FormatHistory(history),
	})

	text, err := a.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return Analysis{Text: fmt.Sprintf("Analysis failed: %v", err), Degraded: true}
	}

	return Analysis{Text: text}
}

// FormatHistory renders the trailing conversation turns as "role: content"
// lines for the analysis prompt.
func FormatHistory(history []types.ConversationTurn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}

// ExtractScore pulls the numeric score from the first SCORE: line of an
// analysis. Missing or unparseable scores yield DefaultScore; out-of-range
// scores are clamped to [MinScore, MaxScore].
func ExtractScore(analysis string) int {
	score := DefaultScore
	for _, line := range strings.Split(analysis, "\n") {
		if !strings.HasPrefix(line, "SCORE:") {
			continue
		}

		rest := strings.Split(line, ":")[1]
		if fields := strings.Fields(rest); len(fields) > 0 {
			if parsed, err := strconv.Atoi(fields[0]); err == nil {
				score = parsed
			}
		}
		break
	}

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// BuildNote assembles the structured record of one exchange. Questions
// without a category are recorded as general.
func BuildNote(question *types.InterviewQuestion, answer string, analysis Analysis) *types.InterviewNote {
	category := question.Category
	if category == "" {
		category = types.CategoryGeneral
	}
	return &types.InterviewNote{
		Question:  question.Question,
		Response:  answer,
		Timestamp: time.Now().UTC(),
		Score:     ExtractScore(analysis.Text),
		Analysis:  analysis.Text,
		Category:  category,
	}
}
