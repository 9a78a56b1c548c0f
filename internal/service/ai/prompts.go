package ai

import (
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
)

const (
	// recentQuestionLimit caps how many prior assistant turns bias the
	// generator away from repetition.
	recentQuestionLimit = 6
	// recentQuestionTruncate trims each recalled question for prompt size.
	recentQuestionTruncate = 140
)

// Question is the structured output expected from a question request.
type Question struct {
	Question    string `json:"question"`
	RubricFocus string `json:"rubric_focus"`
}

// RubricForMode returns the fixed grading criteria for the interview mode.
// Behavioral and mixed interviews both lean on STAR.
func RubricForMode(mode interview.Mode) string {
	if mode == interview.ModeTechnical {
		return strings.Join([]string{
			"Grade the answer 0-10 based on:",
			"- correctness/feasibility of approach",
			"- clarity of explanation",
			"- tradeoffs and complexity discussion",
			"- structured communication (steps, assumptions)",
			"- impact (realism, constraints, edge cases)",
		}, "\n")
	}

	return strings.Join([]string{
		"Grade the answer 0-10 using STAR + communication:",
		"- Situation: context is clear",
		"- Task: goal/responsibility is explicit",
		"- Action: concrete steps, ownership, tradeoffs",
		"- Result: measurable outcome + reflection",
		"- Clarity: structured, concise",
		"- Impact: scale, metrics, stakes",
	}, "\n")
}

func questionSystemPrompt() string {
	return strings.Join([]string{
		"You are an AI interview coach.",
		"Your job: ask ONE interview question at a time and tailor it to the candidate's profile and weaknesses.",
		"Keep questions realistic for a real interview and appropriate to the level.",
		"Output ONLY valid JSON matching this schema:",
		"{",
		`  "question": string,`,
		`  "rubric_focus": string`,
		"}",
	}, "\n")
}

// QuestionContext carries everything the question request needs.
type QuestionContext struct {
	Mode           interview.Mode
	TargetRole     string
	Level          interview.Level
	Focus          []string
	Signals        interview.Signals
	RecentMessages []interview.TranscriptMessage
}

// BuildQuestionMessages assembles the next-question request.
func BuildQuestionMessages(qc QuestionContext) []*schema.Message {
	var recent []string
	for _, m := range qc.RecentMessages {
		if m.Role != interview.RoleAssistant {
			continue
		}
		content := m.Content
		if len(content) > recentQuestionTruncate {
			content = content[:recentQuestionTruncate]
		}
		recent = append(recent, content)
	}
	if len(recent) > recentQuestionLimit {
		recent = recent[len(recent)-recentQuestionLimit:]
	}

	signalsJSON, _ := json.Marshal(qc.Signals)

	lines := []string{
		"Mode: " + string(qc.Mode),
		"Target role: " + qc.TargetRole,
		"Level: " + string(qc.Level),
		"Focus areas (if any): " + focusOrNone(qc.Focus),
		"Weakness signals (higher means more frequent): " + string(signalsJSON),
	}
	if len(recent) > 0 {
		lines = append(lines, "Recently asked (avoid repeating):\n- "+strings.Join(recent, "\n- "))
	}
	lines = append(lines, "Ask the next question now.")

	return []*schema.Message{
		schema.SystemMessage(questionSystemPrompt()),
		schema.UserMessage(strings.Join(lines, "\n")),
	}
}

func gradeSystemPrompt() string {
	return strings.Join([]string{
		"You are an interview grader and coach.",
		"Return STRICT JSON only. No markdown, no commentary.",
		"Use 0-10 scores. Be fair but demanding.",
		"Schema:",
		"{",
		`  "overallScore": number,`,
		`  "star": {"situation": number, "task": number, "action": number, "result": number},`,
		`  "clarity": number,`,
		`  "impact": number,`,
		`  "strengths": string[],`,
		`  "improvements": string[],`,
		`  "missing": string[],`,
		`  "improvedAnswer": string,`,
		`  "signalUpdates": {"missing_metrics"?: number, "weak_result"?: number, "unclear_task"?: number, "rambling"?: number},`,
		`  "nextQuestionStrategy": string`,
		"}",
	}, "\n")
}

// GradeContext carries everything the grade request needs.
type GradeContext struct {
	Mode         interview.Mode
	QuestionText string
	Rubric       string
	AnswerText   string
	TargetRole   string
	Level        interview.Level
	Focus        []string
}

// BuildGradeMessages assembles the grade-answer request.
func BuildGradeMessages(gc GradeContext) []*schema.Message {
	content := strings.Join([]string{
		"Mode: " + string(gc.Mode),
		"Target role: " + gc.TargetRole,
		"Level: " + string(gc.Level),
		"Focus: " + focusOrNone(gc.Focus),
		"",
		"Interview question:",
		gc.QuestionText,
		"",
		"Rubric:",
		gc.Rubric,
		"",
		"Candidate answer:",
		gc.AnswerText,
	}, "\n")

	return []*schema.Message{
		schema.SystemMessage(gradeSystemPrompt()),
		schema.UserMessage(content),
	}
}

func focusOrNone(focus []string) string {
	if len(focus) == 0 {
		return "none"
	}
	return strings.Join(focus, ", ")
}
