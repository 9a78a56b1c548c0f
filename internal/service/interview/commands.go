package interview

import (
	"context"
	"strconv"
	"strings"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/store"
)

type command struct {
	name string
	args string
}

// parseCommand recognizes a leading-slash message. The first token is the
// case-insensitive command name, the remainder its arguments.
func parseCommand(input string) (command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return command{}, false
	}
	fields := strings.Fields(trimmed[1:])
	if len(fields) == 0 {
		return command{}, true
	}
	return command{
		name: strings.ToLower(fields[0]),
		args: strings.TrimSpace(strings.Join(fields[1:], " ")),
	}, true
}

func (s *Service) dispatchCommand(ctx context.Context, sessionID string, data interview.SessionData, cmd command) (ChatResponse, error) {
	switch cmd.name {
	case "reset":
		return s.commandReset(ctx, sessionID)
	case "summary":
		return s.commandSummary(ctx, sessionID)
	case "focus":
		return s.commandFocus(ctx, sessionID, data, cmd.args)
	case "role":
		return s.commandRole(ctx, sessionID, data, cmd.args)
	case "start":
		return s.commandStart(ctx, sessionID, data, cmd.args)
	default:
		return s.commandUnknown(sessionID, data, cmd.name), nil
	}
}

func (s *Service) commandReset(ctx context.Context, sessionID string) (ChatResponse, error) {
	if err := s.sessions.Reset(ctx, sessionID); err != nil {
		return ChatResponse{}, err
	}
	fresh, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ChatResponse{}, err
	}
	reply := "Session reset. Send `/start behavioral`, `/start technical`, or just say hi to begin."
	return s.envelope(sessionID, fresh, reply), nil
}

func (s *Service) commandSummary(ctx context.Context, sessionID string) (ChatResponse, error) {
	data, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ChatResponse{}, err
	}
	stats := snapshot(data)
	reply := strings.Join([]string{
		"Progress summary",
		"- Questions answered: " + strconv.Itoa(stats.QuestionsAnswered),
		"- Average score: " + formatScore(stats.AvgScore),
		"- Current focus: " + stats.CurrentFocus,
		"",
		"Tip: use `/focus metrics` to bias feedback toward quantification.",
	}, "\n")
	return s.envelope(sessionID, data, reply), nil
}

func (s *Service) commandFocus(ctx context.Context, sessionID string, data interview.SessionData, topic string) (ChatResponse, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		current := strings.Join(data.State.Focus, ", ")
		if current == "" {
			current = "none"
		}
		return s.envelope(sessionID, data, "Current focus: "+current), nil
	}

	next, err := s.sessions.PatchProfile(ctx, sessionID, store.ProfilePatch{
		Focus: append(append([]string{}, data.State.Focus...), topic),
	})
	if err != nil {
		return ChatResponse{}, err
	}
	return s.envelope(sessionID, next, "Focus updated: "+strings.Join(next.State.Focus, ", ")), nil
}

func (s *Service) commandRole(ctx context.Context, sessionID string, data interview.SessionData, title string) (ChatResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s.envelope(sessionID, data, "Current target role: "+data.State.TargetRole), nil
	}

	next, err := s.sessions.PatchProfile(ctx, sessionID, store.ProfilePatch{TargetRole: &title})
	if err != nil {
		return ChatResponse{}, err
	}
	return s.envelope(sessionID, next, "Target role updated to: "+next.State.TargetRole), nil
}

func (s *Service) commandStart(ctx context.Context, sessionID string, data interview.SessionData, arg string) (ChatResponse, error) {
	mode := startMode(arg, data.State.Mode)
	if _, err := s.sessions.PatchProfile(ctx, sessionID, store.ProfilePatch{Mode: &mode}); err != nil {
		return ChatResponse{}, err
	}
	if err := s.sessions.ClearLastQuestion(ctx, sessionID); err != nil {
		return ChatResponse{}, err
	}
	_, resp, err := s.askNextQuestion(ctx, sessionID)
	return resp, err
}

// startMode matches the /start argument by case-insensitive substring,
// keeping the current mode when nothing matches.
func startMode(arg string, current interview.Mode) interview.Mode {
	arg = strings.ToLower(arg)
	switch {
	case strings.Contains(arg, "tech"):
		return interview.ModeTechnical
	case strings.Contains(arg, "behav"):
		return interview.ModeBehavioral
	case strings.Contains(arg, "mixed"):
		return interview.ModeMixed
	default:
		return current
	}
}

func (s *Service) commandUnknown(sessionID string, data interview.SessionData, name string) ChatResponse {
	reply := "Unknown command: /" + name + ". Available commands: " +
		"/start [behavioral|technical|mixed], /reset, /summary, /focus <topic>, /role <title>."
	return s.envelope(sessionID, data, reply)
}
