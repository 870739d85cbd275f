package model

import (
	"encoding/json"
	"fmt"
)

// Strategy identifies which backend analysis path produced a result.
type Strategy int

const (
	// StrategyPrimary is the richer LLM-backed analysis.
	StrategyPrimary Strategy = iota
	// StrategyFallback is the fast endpoint reached after the primary failed.
	StrategyFallback
	// StrategyFast is the fast endpoint requested directly.
	StrategyFast
)

func (s Strategy) String() string {
	switch s {
	case StrategyPrimary:
		return "primary"
	case StrategyFallback:
		return "fallback"
	case StrategyFast:
		return "fast"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// StrategyPreference selects what Analyze tries first.
type StrategyPreference int

const (
	PreferPrimary StrategyPreference = iota
	PreferFastOnly
)

// ParseStrategyPreference maps a config value ("primary", "fast") to a preference.
func ParseStrategyPreference(s string) (StrategyPreference, error) {
	switch s {
	case "", "primary", "llm":
		return PreferPrimary, nil
	case "fast":
		return PreferFastOnly, nil
	}
	return PreferPrimary, fmt.Errorf("unknown analysis strategy %q", s)
}

func (p StrategyPreference) String() string {
	if p == PreferFastOnly {
		return "fast"
	}
	return "primary"
}

// AnalysisResult is the backend's analysis payload, kept verbatim.
type AnalysisResult struct {
	raw json.RawMessage
}

// NewAnalysisResult wraps a raw JSON payload.
func NewAnalysisResult(raw []byte) *AnalysisResult {
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return &AnalysisResult{raw: cp}
}

// Raw returns the payload as received.
func (r *AnalysisResult) Raw() json.RawMessage { return r.raw }

// Decode unmarshals the payload into v.
func (r *AnalysisResult) Decode(v any) error {
	return json.Unmarshal(r.raw, v)
}

// Summary decodes the fields the terminal UI knows how to render.
func (r *AnalysisResult) Summary() (MatchSummary, error) {
	var s MatchSummary
	if err := r.Decode(&s); err != nil {
		return MatchSummary{}, fmt.Errorf("decode analysis summary: %w", err)
	}
	return s, nil
}

// MatchSummary is the union of what the fast and LLM endpoints return.
type MatchSummary struct {
	MatchingScore float64  `json:"matching_score"`
	MatchLevel    string   `json:"match_level"`
	Suggestions   []string `json:"suggestions"`
	Reasons       []string `json:"reasons"`
	MissingSkills []string `json:"missing_skills"`
	NiceToHave    []string `json:"nice_to_have"`
	Note          string   `json:"note"`
}

// Level returns MatchLevel, deriving it from the score when the backend left it out.
func (s MatchSummary) Level() string {
	if s.MatchLevel != "" {
		return s.MatchLevel
	}
	switch {
	case s.MatchingScore >= 70:
		return "Strong Match"
	case s.MatchingScore >= 40:
		return "Medium Match"
	default:
		return "Weak Match"
	}
}

// AnalysisOutcome reports which path ran and what it returned.
// Skipped is set when another analysis was already in flight.
type AnalysisOutcome struct {
	Strategy Strategy
	Result   *AnalysisResult
	Skipped  bool
}
