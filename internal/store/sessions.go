package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/analysis/coaching"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
)

// maxTranscript is the transcript cap enforced on every persisted write.
const maxTranscript = 20

// ProfilePatch overlays only its non-nil fields onto the session profile.
// A nil Focus leaves the focus set untouched.
type ProfilePatch struct {
	Mode       *interview.Mode
	TargetRole *string
	Level      *interview.Level
	Focus      []string
}

// Empty reports whether the patch carries no fields.
func (p ProfilePatch) Empty() bool {
	return p.Mode == nil && p.TargetRole == nil && p.Level == nil && p.Focus == nil
}

// Sessions exposes the typed mutations against one durable record per
// session identifier. Each operation is a full read-modify-write; the
// backing KV observes every named operation as a whole.
type Sessions struct {
	kv KV
}

// NewSessions wraps a KV primitive with the session operations.
func NewSessions(kv KV) *Sessions {
	return &Sessions{kv: kv}
}

// Get returns the existing record for sessionID, creating and persisting a
// zero-state default when none exists.
func (s *Sessions) Get(ctx context.Context, sessionID string) (interview.SessionData, error) {
	raw, ok, err := s.kv.Get(ctx, sessionID)
	if err != nil {
		return interview.SessionData{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if ok {
		var data interview.SessionData
		if err := json.Unmarshal(raw, &data); err != nil {
			return interview.SessionData{}, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		return data, nil
	}

	created := interview.DefaultSession(sessionID)
	if err := s.Put(ctx, created); err != nil {
		return interview.SessionData{}, err
	}
	return created, nil
}

// Put trims the transcript to the cap and persists the full record.
func (s *Sessions) Put(ctx context.Context, data interview.SessionData) error {
	if len(data.Messages) > maxTranscript {
		data.Messages = data.Messages[len(data.Messages)-maxTranscript:]
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", data.State.SessionID, err)
	}
	if err := s.kv.Put(ctx, data.State.SessionID, raw); err != nil {
		return fmt.Errorf("store session %s: %w", data.State.SessionID, err)
	}
	return nil
}

// PatchProfile overlays the provided profile fields and returns the updated
// record. Focus entries are deduplicated preserving first appearance.
func (s *Sessions) PatchProfile(ctx context.Context, sessionID string, patch ProfilePatch) (interview.SessionData, error) {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return interview.SessionData{}, err
	}

	if patch.Mode != nil {
		data.State.Mode = *patch.Mode
	}
	if patch.TargetRole != nil {
		data.State.TargetRole = *patch.TargetRole
	}
	if patch.Level != nil {
		data.State.Level = *patch.Level
	}
	if patch.Focus != nil {
		data.State.Focus = dedupeFocus(patch.Focus)
	}

	if err := s.Put(ctx, data); err != nil {
		return interview.SessionData{}, err
	}
	return data, nil
}

// AppendMessage adds one transcript entry stamped with the current time.
func (s *Sessions) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	data.Messages = append(data.Messages, interview.TranscriptMessage{
		Role:    role,
		Content: content,
		TS:      time.Now().UnixMilli(),
	})
	return s.Put(ctx, data)
}

// SetLastQuestion records the pending question and mirrors its text into the
// transcript as an assistant entry.
func (s *Sessions) SetLastQuestion(ctx context.Context, sessionID, text, rubric string) error {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	data.State.LastQuestion = &interview.LastQuestion{Text: text, Rubric: rubric, AskedAt: now}
	data.Messages = append(data.Messages, interview.TranscriptMessage{
		Role:    interview.RoleAssistant,
		Content: text,
		TS:      now,
	})
	return s.Put(ctx, data)
}

// ClearLastQuestion removes any pending question.
func (s *Sessions) ClearLastQuestion(ctx context.Context, sessionID string) error {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	data.State.LastQuestion = nil
	return s.Put(ctx, data)
}

// SetLastGrade replaces the most recent grade.
func (s *Sessions) SetLastGrade(ctx context.Context, sessionID string, grade *interview.Grade) error {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	data.LastGrade = grade
	return s.Put(ctx, data)
}

// UpdateAfterGrade folds one graded answer into the rolling statistics and
// weakness signals, increments questionsAnswered, and returns the updated
// record.
func (s *Sessions) UpdateAfterGrade(ctx context.Context, sessionID string, score float64, delta *interview.SignalUpdates) (interview.SessionData, error) {
	data, err := s.Get(ctx, sessionID)
	if err != nil {
		return interview.SessionData{}, err
	}

	data.State.Signals = coaching.ApplySignalUpdates(data.State.Signals, delta)
	lastScores, avg := coaching.ComputeStatsAfterGrade(data.State.Stats.LastScores, score)
	data.State.Stats = interview.Stats{
		QuestionsAnswered: data.State.Stats.QuestionsAnswered + 1,
		AvgScore:          avg,
		LastScores:        lastScores,
	}

	if err := s.Put(ctx, data); err != nil {
		return interview.SessionData{}, err
	}
	return data, nil
}

// Reset unconditionally replaces the record with fresh defaults.
func (s *Sessions) Reset(ctx context.Context, sessionID string) error {
	return s.Put(ctx, interview.DefaultSession(sessionID))
}

func dedupeFocus(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
