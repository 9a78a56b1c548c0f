package interview

import (
	"context"
	"log"
	"strings"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/analysis/coaching"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/ai"
)

// fallbackGrade is the deterministic evaluation substituted when the grading
// model yields nothing usable. The signal deltas record that the answer
// could not be assessed, independent of mode.
func fallbackGrade() *interview.Grade {
	return &interview.Grade{
		OverallScore: 5,
		Star:         &interview.StarScores{Situation: 5, Task: 5, Action: 5, Result: 4},
		Clarity:      5,
		Impact:       4,
		Strengths:    []string{"You provided a coherent narrative."},
		Improvements: []string{
			"Add concrete actions you personally took.",
			"Add measurable results/impact.",
		},
		Missing:              []string{"Key metric/result", "Specific actions and decisions"},
		SignalUpdates:        &interview.SignalUpdates{MissingMetrics: 1, WeakResult: 1},
		NextQuestionStrategy: "Ask follow-ups that force specific actions + measurable results.",
	}
}

// gradeAnswer runs the grading path for a non-empty answer while a question
// is pending, then immediately chains into the next question.
func (s *Service) gradeAnswer(ctx context.Context, sessionID string, data interview.SessionData, answer string) (ChatResponse, error) {
	if err := s.sessions.AppendMessage(ctx, sessionID, interview.RoleUser, answer); err != nil {
		return ChatResponse{}, err
	}

	grade := &interview.Grade{}
	if err := s.resolver.Resolve(ctx, ai.BuildGradeMessages(ai.GradeContext{
		Mode:         data.State.Mode,
		QuestionText: data.State.LastQuestion.Text,
		Rubric:       ai.RubricForMode(data.State.Mode),
		AnswerText:   answer,
		TargetRole:   data.State.TargetRole,
		Level:        data.State.Level,
		Focus:        data.State.Focus,
	}), grade); err != nil {
		log.Printf("[interview] grade resolution failed for session=%s, using fallback: %v", sessionID, err)
		grade = fallbackGrade()
	}

	score := coaching.ClampScore(grade.OverallScore)
	if err := s.sessions.SetLastGrade(ctx, sessionID, grade); err != nil {
		return ChatResponse{}, err
	}
	updated, err := s.sessions.UpdateAfterGrade(ctx, sessionID, score, grade.SignalUpdates)
	if err != nil {
		return ChatResponse{}, err
	}

	gradeReply := formatGradeReply(grade)
	if err := s.sessions.AppendMessage(ctx, sessionID, interview.RoleAssistant, gradeReply); err != nil {
		return ChatResponse{}, err
	}

	questionText, _, err := s.askNextQuestion(ctx, sessionID)
	if err != nil {
		return ChatResponse{}, err
	}

	resp := s.envelope(sessionID, updated, strings.TrimSpace(strings.Join([]string{
		gradeReply,
		"",
		"Next question:",
		questionText,
	}, "\n")))
	resp.LastGrade = grade
	return resp, nil
}

// formatGradeReply renders the human-readable grade report: score line, up
// to 3 strengths, 3 improvements, 5 missing items, and the optional rewrite.
func formatGradeReply(grade *interview.Grade) string {
	lines := []string{"Score: " + formatScore(coaching.ClampScore(grade.OverallScore)) + "/10"}

	if strengths := capList(grade.Strengths, 3); len(strengths) > 0 {
		lines = append(lines, "", "What you did well:")
		for _, item := range strengths {
			lines = append(lines, "- "+item)
		}
	}
	if improvements := capList(grade.Improvements, 3); len(improvements) > 0 {
		lines = append(lines, "", "Top improvements:")
		for _, item := range improvements {
			lines = append(lines, "- "+item)
		}
	}
	if missing := capList(grade.Missing, 5); len(missing) > 0 {
		lines = append(lines, "", "Missing details to add next time:")
		for _, item := range missing {
			lines = append(lines, "- "+item)
		}
	}
	if rewrite := strings.TrimSpace(grade.ImprovedAnswer); rewrite != "" {
		lines = append(lines, "", "Improved answer (rewrite):", rewrite)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
