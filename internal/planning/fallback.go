package planning

import "github.com/jonathan/interview-coach/internal/types"

// fallbackPool is the fixed question set used when plan generation fails.
// Ordered by priority; covers all four planner categories.
var fallbackPool = []types.InterviewQuestion{
	{
		Question:        "Tell me about your background and experience relevant to this role.",
		Category:        types.CategoryExperience,
		Priority:        5,
		ExpectedSkills:  []string{"communication"},
		FollowUpPrompts: []string{"Can you elaborate on specific projects?"},
	},
	{
		Question:        "What technical skills do you have that match this position?",
		Category:        types.CategoryTechnical,
		Priority:        4,
		ExpectedSkills:  []string{"technical_knowledge"},
		FollowUpPrompts: []string{"Can you provide specific examples?"},
	},
	{
		Question:        "Describe a challenging problem you solved recently.",
		Category:        types.CategoryProblemSolving,
		Priority:        4,
		ExpectedSkills:  []string{"analytical_thinking"},
		FollowUpPrompts: []string{"What was your approach?"},
	},
	{
		Question:        "Why are you interested in this position and our company?",
		Category:        types.CategoryBehavioral,
		Priority:        3,
		ExpectedSkills:  []string{"motivation", "cultural_fit"},
		FollowUpPrompts: []string{"What specifically attracts you to this role?"},
	},
	{
		Question:        "Where do you see yourself in the next 3-5 years?",
		Category:        types.CategoryBehavioral,
		Priority:        2,
		ExpectedSkills:  []string{"career_planning", "ambition"},
		FollowUpPrompts: []string{"How does this role fit into your plans?"},
	},
}

// FallbackQuestions returns the first n fallback questions. n is clamped
// to the pool size; n < 1 yields one question.
func FallbackQuestions(n int) []types.InterviewQuestion {
	if n < 1 {
		n = 1
	}
	if n > len(fallbackPool) {
		n = len(fallbackPool)
	}

	questions := make([]types.InterviewQuestion, n)
	copy(questions, fallbackPool[:n])
	return questions
}
