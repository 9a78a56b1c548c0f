package interview

// StarScores breaks a behavioral answer down by the STAR structure.
type StarScores struct {
	Situation float64 `json:"situation,omitempty"`
	Task      float64 `json:"task,omitempty"`
	Action    float64 `json:"action,omitempty"`
	Result    float64 `json:"result,omitempty"`
}

// Grade is the structured evaluation of one answer, as produced by the
// grading model (or the deterministic fallback).
type Grade struct {
	OverallScore         float64        `json:"overallScore"`
	Star                 *StarScores    `json:"star,omitempty"`
	Clarity              float64        `json:"clarity,omitempty"`
	Impact               float64        `json:"impact,omitempty"`
	Strengths            []string       `json:"strengths,omitempty"`
	Improvements         []string       `json:"improvements,omitempty"`
	Missing              []string       `json:"missing,omitempty"`
	ImprovedAnswer       string         `json:"improvedAnswer,omitempty"`
	SignalUpdates        *SignalUpdates `json:"signalUpdates,omitempty"`
	NextQuestionStrategy string         `json:"nextQuestionStrategy,omitempty"`
}
