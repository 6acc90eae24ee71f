package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/interview-coach/internal/llm"
)

// ExtractedContent is the structured view of a job posting returned by the
// extraction model. Requirements and responsibilities are what the question
// planner cares about; the rest is metadata for the session record.
type ExtractedContent struct {
	Company       string `json:"company,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`

	Title        string   `json:"title,omitempty"`
	Level        string   `json:"level,omitempty"`
	LevelSignals []string `json:"level_signals,omitempty"`

	TeamContext string `json:"team_context,omitempty"`

	AboutCompany     string            `json:"about_company,omitempty"`
	Requirements     []string          `json:"requirements"`
	Responsibilities []string          `json:"responsibilities"`
	NiceToHave       []string          `json:"nice_to_have,omitempty"`
	AdminInfo        map[string]string `json:"admin_info,omitempty"`
}

// ExtractWithLLM runs the job-posting extraction schema over cleaned
// posting text. TierLite is enough: this is categorization, not reasoning.
func ExtractWithLLM(ctx context.Context, text string, apiKey string) (*ExtractedContent, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for LLM extraction")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), text)
	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	var extracted ExtractedContent
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w (content: %s)", err, raw)
	}
	return &extracted, nil
}
