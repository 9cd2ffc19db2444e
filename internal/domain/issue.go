package domain

import (
	"fmt"
	"time"
)

// IssueSeverity grades a generation diagnostic.
type IssueSeverity string

const (
	SeverityInfo    IssueSeverity = "info"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a non-fatal generation diagnostic: repaired values, anomaly
// flags, retry exhaustion. Issues are collected and returned alongside
// the generated data for the caller to log; they are never thrown.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Code     string        `json:"code"`
	Date     time.Time     `json:"date"`
	Detail   string        `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Date.Format("2006-01-02"), i.Code, i.Detail)
}
