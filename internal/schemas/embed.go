package schemas

import _ "embed"

//go:embed interview_plan.schema.json
var interviewPlanSchema string

// InterviewPlanSchema returns the embedded JSON Schema for interview plans.
// The planner validates model output against this schema before accepting it.
func InterviewPlanSchema() string {
	return interviewPlanSchema
}
