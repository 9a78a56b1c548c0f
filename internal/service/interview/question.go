package interview

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/ai"
)

// fallbackQuestion supplies the canned question used whenever the generator
// is unavailable or returns unusable output. Keyed only by mode.
func fallbackQuestion(mode interview.Mode) ai.Question {
	if mode == interview.ModeTechnical {
		return ai.Question{
			Question: "Design a rate limiter for an API. Walk me through your approach, data structures, " +
				"and tradeoffs (burstiness, distributed instances, and storage).",
			RubricFocus: "Explain assumptions, algorithm, complexity, and edge cases.",
		}
	}
	return ai.Question{
		Question: "Tell me about a time you faced a tight deadline. What was the situation, what was your task, " +
			"what actions did you take, and what was the result?",
		RubricFocus: "Use STAR, include measurable results, and keep it concise.",
	}
}

// askNextQuestion produces and persists the next question, then returns the
// question text together with the standard reply envelope built from the
// re-read session.
func (s *Service) askNextQuestion(ctx context.Context, sessionID string) (string, ChatResponse, error) {
	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", ChatResponse{}, err
	}
	mode := current.State.Mode

	var q ai.Question
	if err := s.resolver.Resolve(ctx, ai.BuildQuestionMessages(ai.QuestionContext{
		Mode:           mode,
		TargetRole:     current.State.TargetRole,
		Level:          current.State.Level,
		Focus:          current.State.Focus,
		Signals:        current.State.Signals,
		RecentMessages: current.Messages,
	}), &q); err != nil {
		if !errors.Is(err, ai.ErrGeneratorUnavailable) {
			log.Printf("[interview] question resolution failed for session=%s, using fallback: %v", sessionID, err)
		}
		q = fallbackQuestion(mode)
	}

	questionText := strings.TrimSpace(q.Question)
	if questionText == "" {
		questionText = fallbackQuestion(mode).Question
	}
	rubric := strings.TrimSpace(ai.RubricForMode(mode) + "\n\nRubric focus: " + strings.TrimSpace(q.RubricFocus))

	if err := s.sessions.SetLastQuestion(ctx, sessionID, questionText, rubric); err != nil {
		return "", ChatResponse{}, err
	}

	latest, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", ChatResponse{}, err
	}
	return questionText, s.envelope(sessionID, latest, questionText), nil
}
