package model

import (
	"encoding/json"
	"strings"
)

type Severity string

const (
	SeverityUnknown Severity = "Unknown"
	SeverityNone    Severity = "None"
	SeverityLow     Severity = "Low"
	SeverityMedium  Severity = "Medium"
	SeverityHigh    Severity = "High"
)

var severityOrder = map[Severity]int{
	SeverityUnknown: 0,
	SeverityNone:    1,
	SeverityLow:     2,
	SeverityMedium:  3,
	SeverityHigh:    4,
}

// ParseSeverity is case-insensitive. Empty or unrecognized input yields SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	case "none":
		return SeverityNone
	default:
		return SeverityUnknown
	}
}

// ValidSeverity reports whether s names one of the known severity levels.
func ValidSeverity(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "medium", "low", "none", "unknown":
		return true
	}
	return false
}

func SeverityGTE(a, b Severity) bool {
	return severityOrder[a] >= severityOrder[b]
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseSeverity(raw)
	return nil
}
