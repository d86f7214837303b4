// Package output renders CLI results for terminals, pipes and tooling.
//
// In auto mode a terminal gets styled text and anything else gets markdown,
// which reads well in logs and for agents. JSON is always explicit.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// AllModes returns every valid mode.
func AllModes() []Mode {
	return []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON}
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return true
	}
	return false
}

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// ParseMode parses a mode name. An empty name means auto; "md" is accepted
// for markdown.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid output mode %q (valid: auto, text, markdown, json)", s)
	}
	return m, nil
}
