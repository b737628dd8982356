package domain

import (
	"strings"
	"time"
)

// Severity is the CAP severity level of an alert. Ordinals are ranked:
// a higher value always means a more severe alert.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityExtreme
)

// Urgency is the CAP urgency level: how soon responsive action is needed.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyFuture
	UrgencyExpected
	UrgencyImmediate
)

// Certainty is the CAP certainty level: how confident the issuer is that
// the hazard will occur or is occurring.
type Certainty int

const (
	CertaintyUnknown Certainty = iota
	CertaintyUnlikely
	CertaintyPossible
	CertaintyLikely
	CertaintyObserved
)

// SeverityFromString maps a feed value to a Severity. Matching is
// case-insensitive; unrecognized or empty values map to SeverityUnknown.
func SeverityFromString(value string) Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "minor":
		return SeverityMinor
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	case "extreme":
		return SeverityExtreme
	default:
		return SeverityUnknown
	}
}

// UrgencyFromString maps a feed value to an Urgency. Matching is
// case-insensitive; unrecognized or empty values map to UrgencyUnknown.
func UrgencyFromString(value string) Urgency {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "future":
		return UrgencyFuture
	case "expected":
		return UrgencyExpected
	case "immediate":
		return UrgencyImmediate
	default:
		return UrgencyUnknown
	}
}

// CertaintyFromString maps a feed value to a Certainty. Matching is
// case-insensitive; unrecognized or empty values map to CertaintyUnknown.
func CertaintyFromString(value string) Certainty {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "unlikely":
		return CertaintyUnlikely
	case "possible":
		return CertaintyPossible
	case "likely":
		return CertaintyLikely
	case "observed":
		return CertaintyObserved
	default:
		return CertaintyUnknown
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "Minor"
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	case SeverityExtreme:
		return "Extreme"
	default:
		return "Unknown"
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyFuture:
		return "Future"
	case UrgencyExpected:
		return "Expected"
	case UrgencyImmediate:
		return "Immediate"
	default:
		return "Unknown"
	}
}

func (c Certainty) String() string {
	switch c {
	case CertaintyUnlikely:
		return "Unlikely"
	case CertaintyPossible:
		return "Possible"
	case CertaintyLikely:
		return "Likely"
	case CertaintyObserved:
		return "Observed"
	default:
		return "Unknown"
	}
}

// Alert is one active weather alert after normalization. Every Alert has a
// usable Expires; feed entries without one are rejected during parsing.
type Alert struct {
	ID          string
	AreaCodes   []string // labels the alert was fetched under, e.g. "County: TXC085"
	Event       string
	Headline    string
	Description string
	Instruction string
	NWSHeadline string
	Severity    Severity
	Urgency     Urgency
	Certainty   Certainty
	Onset       *time.Time // may be nil; onset is optional in the feed
	Expires     time.Time
}

// ImportanceScore ranks an alert for comparison against others:
//
//	score = severity*100 + urgency*10 + certainty
//	      + 100 if certainty is Observed, 50 if Likely
//
// Severity dominates. The certainty bonus lifts a confirmed hazard above a
// merely imminent one at equal severity. The value is a total-order key,
// not a magnitude: Minor/Expected/Likely = 173,
// Severe/Immediate/Observed = 434.
func (a Alert) ImportanceScore() int {
	score := int(a.Severity)*100 + int(a.Urgency)*10 + int(a.Certainty)

	switch a.Certainty {
	case CertaintyObserved:
		score += 100
	case CertaintyLikely:
		score += 50
	}

	return score
}

// IsExpired reports whether the alert's expiry is strictly before now.
// Both sides are compared in UTC; an alert expiring exactly now is live.
func (a Alert) IsExpired(now time.Time) bool {
	return now.UTC().After(a.Expires.UTC())
}
