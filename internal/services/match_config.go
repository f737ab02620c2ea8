package services

import (
	"strconv"
	"strings"
)

// MatchConfig declares which question numbers accept multiple options. The
// set is injected rather than hardcoded in the scoring path so events with a
// different questionnaire can reconfigure it without touching the engine.
type MatchConfig struct {
	MultiChoiceQuestions map[int]bool
}

// DefaultMatchConfig returns the standard questionnaire layout, where
// questions 0, 4, 6 and 8 accept up to five options.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{MultiChoiceQuestions: map[int]bool{0: true, 4: true, 6: true, 8: true}}
}

// ParseMatchConfig parses a comma-separated list of multi-choice question
// numbers, e.g. "0,4,6,8". An empty string yields the default layout.
func ParseMatchConfig(list string) (MatchConfig, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultMatchConfig(), nil
	}
	set := map[int]bool{}
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return MatchConfig{}, NewInvalidError("invalid multi-choice question list: " + list)
		}
		set[n] = true
	}
	return MatchConfig{MultiChoiceQuestions: set}, nil
}

// IsMultiChoice reports whether questionNo accepts multiple options.
func (c MatchConfig) IsMultiChoice(questionNo int) bool {
	return c.MultiChoiceQuestions[questionNo]
}
