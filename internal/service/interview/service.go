// Package interview orchestrates the mock-interview conversation: command
// dispatch, question production, answer grading, and the reply envelope.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/analysis/coaching"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/ai"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/store"
)

// maxAnswerLength bounds how much answer text reaches the grading model.
const maxAnswerLength = 3000

// ErrMissingSessionID is returned by operations that require an existing
// session identifier.
var ErrMissingSessionID = errors.New("missing sessionId")

// ErrInvalidProfile marks profile fields that fail enum validation.
var ErrInvalidProfile = errors.New("invalid profile field")

// Service is the per-request dispatcher over the session store and the
// structured-output resolver.
type Service struct {
	sessions *store.Sessions
	resolver *ai.Resolver
}

// NewService wires the orchestrator. The resolver may wrap a nil generator;
// every model call then degrades to deterministic fallback content.
func NewService(sessions *store.Sessions, resolver *ai.Resolver) *Service {
	return &Service{sessions: sessions, resolver: resolver}
}

// ChatRequest is one inbound interview action. Nil profile fields are
// absent; a nil Focus leaves the focus set untouched.
type ChatRequest struct {
	SessionID  string           `json:"sessionId"`
	Message    string           `json:"message"`
	Mode       *interview.Mode  `json:"mode"`
	TargetRole *string          `json:"targetRole"`
	Level      *interview.Level `json:"level"`
	Focus      []string         `json:"focus"`
}

// Validate rejects profile fields outside the supported enums.
func (r ChatRequest) Validate() error {
	if r.Mode != nil && !interview.ValidMode(*r.Mode) {
		return fmt.Errorf("%w: mode %q", ErrInvalidProfile, *r.Mode)
	}
	if r.Level != nil && !interview.ValidLevel(*r.Level) {
		return fmt.Errorf("%w: level %q", ErrInvalidProfile, *r.Level)
	}
	return nil
}

func (r ChatRequest) profilePatch() store.ProfilePatch {
	return store.ProfilePatch{
		Mode:       r.Mode,
		TargetRole: r.TargetRole,
		Level:      r.Level,
		Focus:      r.Focus,
	}
}

// StatsSnapshot is the progress block attached to every reply.
type StatsSnapshot struct {
	AvgScore          float64   `json:"avgScore"`
	LastScores        []float64 `json:"lastScores"`
	CurrentFocus      string    `json:"currentFocus"`
	QuestionsAnswered int       `json:"questionsAnswered"`
}

// ChatResponse is the standard reply envelope.
type ChatResponse struct {
	SessionID string           `json:"sessionId"`
	Reply     string           `json:"reply"`
	Stats     StatsSnapshot    `json:"stats"`
	LastGrade *interview.Grade `json:"lastGrade,omitempty"`
}

// HandleChat processes one message for a session: profile patching first,
// then slash commands, then the question/grade state machine.
func (s *Service) HandleChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	message := truncateAnswer(strings.TrimSpace(req.Message))

	patch := req.profilePatch()
	data, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ChatResponse{}, err
	}
	if !patch.Empty() {
		if data, err = s.sessions.PatchProfile(ctx, sessionID, patch); err != nil {
			return ChatResponse{}, err
		}
	}

	if cmd, ok := parseCommand(message); ok {
		return s.dispatchCommand(ctx, sessionID, data, cmd)
	}

	// No message but profile fields were provided: acknowledge the update
	// without starting the interview.
	if message == "" && !patch.Empty() {
		return s.envelope(sessionID, data, "Profile updated."), nil
	}

	// No message, or no question pending yet: ask one.
	if message == "" || data.State.Phase() == interview.PhaseIdle {
		_, resp, err := s.askNextQuestion(ctx, sessionID)
		return resp, err
	}

	return s.gradeAnswer(ctx, sessionID, data, message)
}

// Summary reports progress without mutating state.
type Summary struct {
	SessionID  string               `json:"sessionId"`
	Mode       interview.Mode       `json:"mode"`
	TargetRole string               `json:"targetRole"`
	Level      interview.Level      `json:"level"`
	Stats      StatsSnapshot        `json:"stats"`
	TopSignals []coaching.TopSignal `json:"topSignals"`
	LastGrade  *interview.Grade     `json:"lastGrade,omitempty"`
}

// GetSummary returns the progress report for an existing session.
func (s *Service) GetSummary(ctx context.Context, sessionID string) (Summary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Summary{}, ErrMissingSessionID
	}
	data, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		SessionID:  sessionID,
		Mode:       data.State.Mode,
		TargetRole: data.State.TargetRole,
		Level:      data.State.Level,
		Stats:      snapshot(data),
		TopSignals: coaching.TopSignals(data.State.Signals, 3),
		LastGrade:  data.LastGrade,
	}, nil
}

// Reset wipes all state for the session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrMissingSessionID
	}
	return s.sessions.Reset(ctx, sessionID)
}

func truncateAnswer(message string) string {
	if len(message) <= maxAnswerLength {
		return message
	}
	return message[:maxAnswerLength] +
		fmt.Sprintf("\n\n[Note: Answer truncated from %d characters to fit processing limits]", len(message))
}

func snapshot(data interview.SessionData) StatsSnapshot {
	return StatsSnapshot{
		AvgScore:          data.State.Stats.AvgScore,
		LastScores:        data.State.Stats.LastScores,
		CurrentFocus:      coaching.CurrentFocusFromSignals(data.State.Signals),
		QuestionsAnswered: data.State.Stats.QuestionsAnswered,
	}
}

func (s *Service) envelope(sessionID string, data interview.SessionData, reply string) ChatResponse {
	return ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Stats:     snapshot(data),
		LastGrade: data.LastGrade,
	}
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
