package ai

import (
	"encoding/json"
	"strings"

	"github.com/vidyamithra/backend/internal/application/service"
)

// MockResponse produces the deterministic last-resort completion. JSON-
// expecting kinds get syntactically valid JSON in the caller's expected
// shape; conversational kinds get plausible text. No randomness: the same
// request always yields the same response, which keeps the product
// demoable and testable with no configured credentials.
func MockResponse(req service.CompletionRequest) string {
	switch req.Kind {
	case service.KindRoadmap:
		return mockRoadmapJSON
	case service.KindQuiz:
		return mockQuizJSON
	case service.KindResumeAnalysis:
		return mockResumeAnalysisJSON
	case service.KindInterviewAnalysis:
		return mockInterviewAnalysisJSON
	case service.KindLearningResources:
		return mockLearningResourcesJSON
	case service.KindOpportunities:
		return mockOpportunitiesJSON
	case service.KindInterviewQuestion:
		return mockInterviewQuestion(req)
	default:
		return "That's an excellent point. Could you elaborate more on your specific implementation strategy for that module?"
	}
}

var (
	technicalQuestions = []string{
		"How do you optimize a React application that is experiencing performance bottlenecks in a high-traffic environment?",
		"Can you explain the differences between Microservices architecture and Monolithic architecture in terms of scalability?",
		"Describe your approach to implementing secure authentication using JWT and OAuth2 in a distributed system.",
		"How would you handle a situation where two concurrent database transactions are trying to update the same record?",
	}
	managerialQuestions = []string{
		"Tell me about a time you had to lead a team through a significant technological shift. What challenges did you face?",
		"How do you handle a high-performing team member who is currently struggling with burnout or motivation?",
		"Describe your process for prioritizing features when dealing with conflicting requests from multiple stakeholders.",
	}
	behavioralQuestions = []string{
		"Why are you interested in this specific role, and how does it align with your long-term career goals?",
		"Tell me about a time you had to deliver difficult feedback to a colleague and the outcome of that conversation.",
		"How do you maintain a healthy work-life balance while working in a high-pressure, fast-paced tech environment?",
	}
)

// mockInterviewQuestion rotates through a canned question bank by transcript
// length, so successive turns see different questions without randomness.
// The round type still lives in the system prompt, so that single string is
// inspected to select the bank.
func mockInterviewQuestion(req service.CompletionRequest) string {
	system := strings.ToLower(req.SystemPrompt)

	bank := behavioralQuestions
	switch {
	case strings.Contains(system, "technical"):
		bank = technicalQuestions
	case strings.Contains(system, "managerial"):
		bank = managerialQuestions
	}

	return bank[len(req.Messages)%len(bank)]
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

var mockRoadmapJSON = mustJSON(map[string]any{
	"levels": []map[string]any{
		{
			"name":           "Beginner",
			"pass_threshold": 70,
			"skills": []map[string]any{
				{"id": "skill-programming-basics", "name": "Programming Fundamentals", "description": "Learn variables, control flow, functions, and basic data structures.", "prerequisites": []string{}, "estimated_hours": 30, "order": 1},
				{"id": "skill-git", "name": "Version Control with Git", "description": "Track changes, branch, merge, and collaborate through pull requests.", "prerequisites": []string{"skill-programming-basics"}, "estimated_hours": 10, "order": 2},
				{"id": "skill-sql", "name": "SQL & Relational Databases", "description": "Write queries, model schemas, and understand indexes and joins.", "prerequisites": []string{"skill-programming-basics"}, "estimated_hours": 25, "order": 3},
			},
		},
		{
			"name":           "Intermediate",
			"pass_threshold": 80,
			"skills": []map[string]any{
				{"id": "skill-rest-apis", "name": "REST API Design", "description": "Design and build resource-oriented HTTP APIs with proper status codes.", "prerequisites": []string{"skill-programming-basics", "skill-git"}, "estimated_hours": 20, "order": 1},
				{"id": "skill-testing", "name": "Automated Testing", "description": "Write unit and integration tests and wire them into CI.", "prerequisites": []string{"skill-rest-apis"}, "estimated_hours": 15, "order": 2},
				{"id": "skill-docker", "name": "Containers with Docker", "description": "Package applications into images and run them reproducibly.", "prerequisites": []string{"skill-rest-apis"}, "estimated_hours": 15, "order": 3},
			},
		},
		{
			"name":           "Advanced",
			"pass_threshold": 85,
			"skills": []map[string]any{
				{"id": "skill-system-design", "name": "System Design", "description": "Reason about scalability, caching, queues, and failure modes.", "prerequisites": []string{"skill-rest-apis", "skill-docker"}, "estimated_hours": 40, "order": 1},
				{"id": "skill-observability", "name": "Observability", "description": "Instrument services with structured logs, metrics, and traces.", "prerequisites": []string{"skill-testing"}, "estimated_hours": 15, "order": 2},
				{"id": "skill-cloud-deploy", "name": "Cloud Deployment", "description": "Deploy and operate services on a managed cloud platform.", "prerequisites": []string{"skill-docker"}, "estimated_hours": 25, "order": 3},
			},
		},
	},
})

var mockQuizJSON = mustJSON(map[string]any{"questions": []map[string]any{
	{"id": 1, "question": "Which statement best describes the main purpose of this skill in production systems?", "options": []string{"Improving reliability and correctness", "Replacing all manual processes", "Eliminating the need for testing", "Reducing code readability"}, "correct": 0, "explanation": "The skill exists to make systems more reliable and correct."},
	{"id": 2, "question": "What is the FIRST thing to check when applying this skill to an existing codebase?", "options": []string{"Rewrite everything from scratch", "Current behavior and constraints", "The newest framework version", "Team vacation schedules"}, "correct": 1, "explanation": "Understanding existing behavior and constraints comes before any change."},
	{"id": 3, "question": "Which practice most improves long-term maintainability?", "options": []string{"Avoiding documentation", "Copy-pasting working snippets", "Small, well-tested increments", "Disabling code review"}, "correct": 2, "explanation": "Small, well-tested increments keep changes reviewable and reversible."},
	{"id": 4, "question": "A change works locally but fails in production. What is the most likely cause?", "options": []string{"Production hardware is slower", "Environment or configuration drift", "The compiler is broken", "Users are doing it wrong"}, "correct": 1, "explanation": "Differences in environment and configuration are the most common culprit."},
	{"id": 5, "question": "How should errors from external dependencies be handled?", "options": []string{"Ignored to keep logs clean", "Retried forever", "Handled explicitly with context", "Converted to warnings"}, "correct": 2, "explanation": "Explicit handling with context preserves debuggability."},
	{"id": 6, "question": "What distinguishes an intermediate practitioner from a beginner?", "options": []string{"Typing speed", "Knowing common patterns and their tradeoffs", "Using more dependencies", "Avoiding all abstractions"}, "correct": 1, "explanation": "Pattern and tradeoff awareness is the key difference."},
	{"id": 7, "question": "When is it appropriate to optimize for performance?", "options": []string{"Before writing any code", "After measuring a real bottleneck", "Never", "Only during code review"}, "correct": 1, "explanation": "Optimization should follow measurement, not precede it."},
	{"id": 8, "question": "Which signal best indicates that a refactor is needed?", "options": []string{"The code is older than a year", "Changes repeatedly require edits in many places", "A new language version shipped", "The team is bored"}, "correct": 1, "explanation": "Shotgun-surgery changes are the classic refactoring signal."},
	{"id": 9, "question": "What is the safest way to roll out a risky change?", "options": []string{"Deploy on Friday evening", "Behind a flag with gradual rollout", "Directly to all users", "Skip staging to save time"}, "correct": 1, "explanation": "Flags and gradual rollout bound the blast radius."},
	{"id": 10, "question": "How should knowledge of this skill be kept current?", "options": []string{"Relying on memory", "Regular practice and reading release notes", "Waiting for a rewrite", "Avoiding new material"}, "correct": 1, "explanation": "Deliberate practice and tracking changes keep skills sharp."},
}})

// The resume-analysis fallback deliberately advertises the outage so a
// degraded response is never mistaken for a real evaluation.
var mockResumeAnalysisJSON = mustJSON(map[string]any{
	"ats_score":        0,
	"strengths":        []string{"System is connected but all AI providers are offline"},
	"weaknesses":       []string{"Real-time analysis is unavailable because all AI services (Groq, Gemini, OpenAI) could not authenticate or are offline"},
	"missing_keywords": []string{"Please check your Groq/OpenAI/Gemini keys in .env"},
	"improvement_suggestions": []string{
		"Add a valid provider API key to .env",
		"Restart the backend server",
		"Check backend logs for specific error messages",
	},
	"detected_skills": []string{},
	"summary":         "Automated resume analysis is unavailable: no AI provider could be reached. The score above is a placeholder, not an evaluation.",
})

var mockInterviewAnalysisJSON = mustJSON(map[string]any{
	"technical_score":     78,
	"communication_score": 85,
	"confidence_score":    80,
	"overall_score":       81,
	"verdict":             "Good Fit",
	"strengths": []string{
		"Excellence in architectural pattern recognition",
		"Highly articulate communication of complex concepts",
		"Patient and methodical approach to problem-solving",
	},
	"weaknesses": []string{
		"Could provide more specific metrics in experience descriptions",
		"Occasional over-reliance on standard library examples",
	},
	"detailed_feedback": []map[string]any{
		{"question_summary": "Overall interview performance", "assessment": "Solid answers with room for more quantified impact.", "score": 80},
	},
	"improvement_tips": []string{
		"Prepare more data-driven examples of project success",
		"Practice explaining complex tradeoffs in shorter 'elevator pitch' formats",
	},
	"summary": "Overall, a very solid performance. You demonstrated deep technical knowledge and a strong cultural fit.",
})

var mockLearningResourcesJSON = mustJSON([]map[string]any{
	{"title": "Complete Beginner Introduction", "channel": "freeCodeCamp.org", "url": "https://www.youtube.com/results?search_query=beginner+full+course", "type": "video", "duration": "Full Course", "order": 1, "why": "A thorough end-to-end introduction for newcomers."},
	{"title": "Core Concepts Explained Visually", "channel": "Fireship", "url": "https://www.youtube.com/results?search_query=explained+in+100+seconds", "type": "video", "duration": "15 min", "order": 2, "why": "Fast visual overview of the fundamental ideas."},
	{"title": "Hands-on Crash Course", "channel": "Traversy Media", "url": "https://www.youtube.com/results?search_query=crash+course", "type": "video", "duration": "2 hours", "order": 3, "why": "Practical walkthrough building something real."},
	{"title": "Common Mistakes and How to Avoid Them", "channel": "Web Dev Simplified", "url": "https://www.youtube.com/results?search_query=common+mistakes", "type": "video", "duration": "20 min", "order": 4, "why": "Learn from mistakes others already made."},
	{"title": "Intermediate Patterns Deep Dive", "channel": "ArjanCodes", "url": "https://www.youtube.com/results?search_query=patterns+deep+dive", "type": "playlist", "duration": "3 hours", "order": 5, "why": "Moves from syntax to design thinking."},
	{"title": "Build a Portfolio Project", "channel": "freeCodeCamp.org", "url": "https://www.youtube.com/results?search_query=project+tutorial", "type": "playlist", "duration": "Full Course", "order": 6, "why": "Project-based practice cements the skill."},
})

var mockOpportunitiesJSON = mustJSON(map[string]any{"opportunities": []map[string]any{
	{"title": "Foundational Online Courses", "company": "Coursera", "opportunity_type": "course", "description": "University-backed beginner courses with certificates.", "url": "https://www.coursera.org/search?query=beginner", "source": "coursera", "skill_tags": []string{"Fundamentals"}, "level": "Beginner", "location": "Remote", "salary_range": "Free"},
	{"title": "Self-paced Micro Courses", "company": "edX", "opportunity_type": "course", "description": "Audit-free university courses across tech topics.", "url": "https://www.edx.org/search?q=technology", "source": "edx", "skill_tags": []string{"Fundamentals"}, "level": "Beginner", "location": "Remote", "salary_range": "Free"},
	{"title": "Tech Internship Listings", "company": "Internshala", "opportunity_type": "internship", "description": "Aggregated internship openings for students and juniors.", "url": "https://internshala.com/internships/computer-science-internship", "source": "internshala", "skill_tags": []string{"Software"}, "level": "Intermediate", "location": "Remote", "salary_range": "Stipend varies"},
	{"title": "Remote Engineering Roles", "company": "Wellfound", "opportunity_type": "job", "description": "Startup jobs with transparent salary ranges.", "url": "https://wellfound.com/jobs", "source": "wellfound", "skill_tags": []string{"Software"}, "level": "Advanced", "location": "Remote", "salary_range": "Varies"},
	{"title": "Professional Certificates", "company": "LinkedIn Learning", "opportunity_type": "course", "description": "Role-oriented learning paths with completion badges.", "url": "https://www.linkedin.com/learning/search?keywords=engineering", "source": "linkedin_learning", "skill_tags": []string{"Career"}, "level": "Intermediate", "location": "Remote", "salary_range": "Subscription"},
}})
