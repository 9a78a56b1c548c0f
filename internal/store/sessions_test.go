package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
)

func newSessions() *Sessions {
	return NewSessions(NewMemoryKV())
}

func TestGetCreatesDefaults(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	data, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if data.State.SessionID != "abc" {
		t.Fatalf("unexpected session id %q", data.State.SessionID)
	}
	if data.State.Mode != interview.ModeMixed {
		t.Fatalf("default mode = %q want mixed", data.State.Mode)
	}
	if data.State.Level != interview.LevelIntern {
		t.Fatalf("default level = %q want intern", data.State.Level)
	}
	if data.State.Stats.QuestionsAnswered != 0 || len(data.State.Stats.LastScores) != 0 {
		t.Fatalf("stats not zeroed: %+v", data.State.Stats)
	}
	if data.State.LastQuestion != nil {
		t.Fatal("fresh session should have no pending question")
	}

	// The default must have been persisted, not just returned.
	again, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("second Get err: %v", err)
	}
	if again.State.TargetRole != data.State.TargetRole {
		t.Fatalf("default not persisted: %+v", again.State)
	}
}

func TestPutTrimsTranscript(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if err := s.AppendMessage(ctx, "abc", interview.RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	data, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(data.Messages) != 20 {
		t.Fatalf("transcript length = %d want 20", len(data.Messages))
	}
	if data.Messages[0].Content != "msg 10" || data.Messages[19].Content != "msg 29" {
		t.Fatalf("oldest entries not evicted first: first=%q last=%q",
			data.Messages[0].Content, data.Messages[19].Content)
	}
}

func TestPatchProfileOnlyProvidedFields(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	role := "Backend Engineer"
	data, err := s.PatchProfile(ctx, "abc", ProfilePatch{TargetRole: &role})
	if err != nil {
		t.Fatalf("PatchProfile err: %v", err)
	}
	if data.State.TargetRole != role {
		t.Fatalf("targetRole = %q want %q", data.State.TargetRole, role)
	}
	if data.State.Mode != interview.ModeMixed {
		t.Fatalf("mode changed unexpectedly: %q", data.State.Mode)
	}

	mode := interview.ModeTechnical
	data, err = s.PatchProfile(ctx, "abc", ProfilePatch{Mode: &mode})
	if err != nil {
		t.Fatalf("PatchProfile err: %v", err)
	}
	if data.State.Mode != interview.ModeTechnical || data.State.TargetRole != role {
		t.Fatalf("patch overlay wrong: %+v", data.State)
	}
}

func TestPatchProfileDedupesFocus(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	data, err := s.PatchProfile(ctx, "abc", ProfilePatch{Focus: []string{"metrics", "scaling", "metrics"}})
	if err != nil {
		t.Fatalf("PatchProfile err: %v", err)
	}
	if len(data.State.Focus) != 2 || data.State.Focus[0] != "metrics" || data.State.Focus[1] != "scaling" {
		t.Fatalf("focus not deduplicated in order: %v", data.State.Focus)
	}
}

func TestSetAndClearLastQuestion(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	if err := s.SetLastQuestion(ctx, "abc", "Tell me about a project.", "rubric text"); err != nil {
		t.Fatalf("SetLastQuestion err: %v", err)
	}
	data, _ := s.Get(ctx, "abc")
	if data.State.LastQuestion == nil || data.State.LastQuestion.Text != "Tell me about a project." {
		t.Fatalf("lastQuestion not set: %+v", data.State.LastQuestion)
	}
	if data.State.LastQuestion.AskedAt == 0 {
		t.Fatal("askedAt not stamped")
	}
	last := data.Messages[len(data.Messages)-1]
	if last.Role != interview.RoleAssistant || last.Content != "Tell me about a project." {
		t.Fatalf("question not mirrored into transcript: %+v", last)
	}

	if err := s.ClearLastQuestion(ctx, "abc"); err != nil {
		t.Fatalf("ClearLastQuestion err: %v", err)
	}
	data, _ = s.Get(ctx, "abc")
	if data.State.LastQuestion != nil {
		t.Fatal("lastQuestion not cleared")
	}
}

func TestUpdateAfterGrade(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	delta := &interview.SignalUpdates{MissingMetrics: 1, WeakResult: 1}
	data, err := s.UpdateAfterGrade(ctx, "abc", 7, delta)
	if err != nil {
		t.Fatalf("UpdateAfterGrade err: %v", err)
	}
	if data.State.Stats.QuestionsAnswered != 1 {
		t.Fatalf("questionsAnswered = %d want 1", data.State.Stats.QuestionsAnswered)
	}
	if data.State.Stats.AvgScore != 7 {
		t.Fatalf("avgScore = %v want 7", data.State.Stats.AvgScore)
	}
	if data.State.Signals.MissingMetrics != 1 || data.State.Signals.WeakResult != 1 {
		t.Fatalf("signals not applied: %+v", data.State.Signals)
	}

	// Signals only grow across repeated grade updates.
	prev := data.State.Signals
	data, err = s.UpdateAfterGrade(ctx, "abc", 4, &interview.SignalUpdates{Rambling: 2})
	if err != nil {
		t.Fatalf("UpdateAfterGrade err: %v", err)
	}
	if data.State.Signals.MissingMetrics < prev.MissingMetrics ||
		data.State.Signals.WeakResult < prev.WeakResult ||
		data.State.Signals.Rambling < prev.Rambling {
		t.Fatalf("signals decreased: %+v -> %+v", prev, data.State.Signals)
	}
	if data.State.Stats.QuestionsAnswered != 2 {
		t.Fatalf("questionsAnswered = %d want 2", data.State.Stats.QuestionsAnswered)
	}
	if data.State.Stats.AvgScore != 5.5 {
		t.Fatalf("avgScore = %v want 5.5", data.State.Stats.AvgScore)
	}
}

func TestResetReplacesRecord(t *testing.T) {
	s := newSessions()
	ctx := context.Background()

	if _, err := s.UpdateAfterGrade(ctx, "abc", 9, nil); err != nil {
		t.Fatalf("UpdateAfterGrade err: %v", err)
	}
	if err := s.SetLastQuestion(ctx, "abc", "q", "r"); err != nil {
		t.Fatalf("SetLastQuestion err: %v", err)
	}

	if err := s.Reset(ctx, "abc"); err != nil {
		t.Fatalf("Reset err: %v", err)
	}
	data, _ := s.Get(ctx, "abc")
	if data.State.Stats.QuestionsAnswered != 0 || data.State.LastQuestion != nil || len(data.Messages) != 0 {
		t.Fatalf("reset did not zero the record: %+v", data)
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(t.TempDir() + "/sessions.db")
	if err != nil {
		t.Fatalf("NewSQLiteKV err: %v", err)
	}
	defer kv.Close()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := kv.Put(ctx, "abc", []byte(`{"state":{"sessionId":"abc"}}`)); err != nil {
		t.Fatalf("Put err: %v", err)
	}
	raw, ok, err := kv.Get(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Get err=%v ok=%v", err, ok)
	}
	if string(raw) != `{"state":{"sessionId":"abc"}}` {
		t.Fatalf("unexpected blob: %s", raw)
	}

	// Put replaces, never merges.
	if err := kv.Put(ctx, "abc", []byte(`{"state":{"sessionId":"abc","mode":"technical"}}`)); err != nil {
		t.Fatalf("second Put err: %v", err)
	}
	raw, _, _ = kv.Get(ctx, "abc")
	if string(raw) != `{"state":{"sessionId":"abc","mode":"technical"}}` {
		t.Fatalf("replace semantics violated: %s", raw)
	}
}
