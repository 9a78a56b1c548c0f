package interview

// Mode selects the question style and grading rubric for a session.
type Mode string

const (
	ModeBehavioral Mode = "behavioral"
	ModeTechnical  Mode = "technical"
	ModeMixed      Mode = "mixed"
)

// ValidMode reports whether m is one of the supported interview modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeBehavioral, ModeTechnical, ModeMixed:
		return true
	}
	return false
}

// Level describes the candidate's seniority.
type Level string

const (
	LevelIntern  Level = "intern"
	LevelNewGrad Level = "newgrad"
	LevelMid     Level = "mid"
)

// ValidLevel reports whether l is one of the supported candidate levels.
func ValidLevel(l Level) bool {
	switch l {
	case LevelIntern, LevelNewGrad, LevelMid:
		return true
	}
	return false
}

// Transcript roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptMessage persists one conversation turn.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TS      int64  `json:"ts"` // unix milliseconds
}

// Signals counts recurring weakness patterns observed across graded answers.
// Each counter only ever grows; grading is the sole writer.
type Signals struct {
	MissingMetrics int `json:"missing_metrics"`
	WeakResult     int `json:"weak_result"`
	UnclearTask    int `json:"unclear_task"`
	Rambling       int `json:"rambling"`
}

// SignalUpdates is a partial delta applied to Signals after grading.
// Absent fields decode to zero and add nothing.
type SignalUpdates struct {
	MissingMetrics int `json:"missing_metrics,omitempty"`
	WeakResult     int `json:"weak_result,omitempty"`
	UnclearTask    int `json:"unclear_task,omitempty"`
	Rambling       int `json:"rambling,omitempty"`
}

// Stats tracks the rolling score window for a session.
type Stats struct {
	QuestionsAnswered int       `json:"questionsAnswered"`
	AvgScore          float64   `json:"avgScore"`
	LastScores        []float64 `json:"lastScores"` // at most 10, oldest first
}

// LastQuestion is the pending question awaiting an answer.
type LastQuestion struct {
	Text    string `json:"text"`
	Rubric  string `json:"rubric"`
	AskedAt int64  `json:"askedAt"` // unix milliseconds
}

// SessionState holds the coaching profile and progress for one session.
type SessionState struct {
	SessionID    string        `json:"sessionId"`
	Mode         Mode          `json:"mode"`
	TargetRole   string        `json:"targetRole"`
	Level        Level         `json:"level"`
	Focus        []string      `json:"focus"`
	Signals      Signals       `json:"signals"`
	Stats        Stats         `json:"stats"`
	LastQuestion *LastQuestion `json:"lastQuestion,omitempty"`
}

// Phase is the orchestration state derived from the pending question.
type Phase int

const (
	// PhaseIdle means no question is pending; the next message asks one.
	PhaseIdle Phase = iota
	// PhaseAwaitingAnswer means a question was asked and not yet answered.
	PhaseAwaitingAnswer
)

// Phase reports the current orchestration state of the session.
func (s SessionState) Phase() Phase {
	if s.LastQuestion == nil {
		return PhaseIdle
	}
	return PhaseAwaitingAnswer
}

// SessionData is the full durable record for one session identifier.
type SessionData struct {
	State     SessionState        `json:"state"`
	Messages  []TranscriptMessage `json:"messages"`
	LastGrade *Grade              `json:"lastGrade,omitempty"`
}

// DefaultState returns the zero-progress profile for a fresh session.
func DefaultState(sessionID string) SessionState {
	return SessionState{
		SessionID:  sessionID,
		Mode:       ModeMixed,
		TargetRole: "Software Engineering Intern",
		Level:      LevelIntern,
		Focus:      []string{},
		Stats:      Stats{LastScores: []float64{}},
	}
}

// DefaultSession returns a fresh record for the identifier.
func DefaultSession(sessionID string) SessionData {
	return SessionData{
		State:    DefaultState(sessionID),
		Messages: []TranscriptMessage{},
	}
}
