// Package llm - extractor.go provides schema-directed structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes a structured-extraction task: what the model
// is asked to pull out of free text and the JSON shape it must return.
type ExtractionSchema struct {
	// Name identifies the schema in logs and prompts.
	Name string
	// Description is the task preamble placed at the top of the prompt.
	Description string
	// Fields are the expected output fields, in prompt order.
	Fields []SchemaField
}

// SchemaField is one field of the extraction output.
type SchemaField struct {
	Name        string // JSON key
	Type        string // type hint shown to the model; defaults to "string"
	Description string // inline hint for the model
	Required    bool
}

// promptLine renders one field as a line of the JSON shape shown to the
// model.
func (f SchemaField) promptLine() string {
	hint := f.Type
	if hint == "" {
		hint = "string"
	}
	line := fmt.Sprintf("  %q: %s", f.Name, hint)
	if f.Required {
		line += " (required)"
	}
	if f.Description != "" {
		line += " // " + f.Description
	}
	return line
}

// BuildExtractionPrompt renders the schema and input text into a prompt
// that demands bare JSON output.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	lines := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		lines[i] = field.promptLine()
	}

	var sb strings.Builder
	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// JobPostingSchema is the extraction schema applied to fetched job
// postings before they are used as the interview's job description. The
// verbatim-copy instruction matters: the question planner keys off the
// posting's exact phrasing.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobPosting",
		Description: `You are an expert job posting parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Your task is to extract and categorize information from a raw job posting so it can drive interview question planning.
IMPORTANT: Preserve the exact wording from the original text.
Goal: Extract team context, requirements, responsibilities, and administrative metadata.
EXCLUDE: Application form fields, EEO statements, legal disclaimers, generic "About Company" boilerplate.`,
		Fields: []SchemaField{
			{
				Name:        "team_context",
				Type:        `"string"`,
				Description: "Team name, organization, team description - include ALL context about the team/org verbatim",
			},
			{
				Name:        "requirements",
				Type:        `["string"]`,
				Description: "Technical requirements, qualifications, skills needed - copy each requirement verbatim",
				Required:    true,
			},
			{
				Name:        "responsibilities",
				Type:        `["string"]`,
				Description: "Job duties, day-to-day work - copy each responsibility verbatim",
				Required:    true,
			},
			{
				Name:        "nice_to_have",
				Type:        `["string"]`,
				Description: "Preferred skills, nice-to-have qualifications - copy verbatim",
			},
			{
				Name:        "admin_info",
				Type:        `{"key": "value"}`,
				Description: "Salary, clearance, citizenship, location, job ID - extract key-value pairs",
			},
		},
	}
}
