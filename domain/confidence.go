package domain

import (
	"fmt"
	"strings"
)

// Confidence grades how likely a similarity signal reflects a shared origin
// rather than a coincidence.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// Confidences lists every level from weakest to strongest.
var Confidences = []Confidence{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "LOW"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("Confidence(%d)", int(c))
	}
}

// MarshalText renders the level by name in JSON and YAML reports.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (c *Confidence) UnmarshalText(text []byte) error {
	parsed, err := ParseConfidence(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseConfidence accepts LOW, MEDIUM or HIGH in any case.
func ParseConfidence(s string) (Confidence, error) {
	for _, c := range Confidences {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return ConfidenceLow, NewInvalidInputError(fmt.Sprintf("unknown confidence: %q", s), nil)
}

// DetectionMethod names one similarity signal.
type DetectionMethod int

const (
	MethodHash DetectionMethod = iota
	MethodFqn
	MethodFingerprint
	MethodCombined
	MethodDir
)

// DetectionMethodCount is the number of detection methods.
const DetectionMethodCount = 5

// DetectionMethods lists every method in bit order.
var DetectionMethods = []DetectionMethod{MethodHash, MethodFqn, MethodFingerprint, MethodCombined, MethodDir}

func (m DetectionMethod) String() string {
	switch m {
	case MethodHash:
		return "HASH"
	case MethodFqn:
		return "FQN"
	case MethodFingerprint:
		return "FINGERPRINT"
	case MethodCombined:
		return "COMBINED"
	case MethodDir:
		return "DIR"
	default:
		return fmt.Sprintf("DetectionMethod(%d)", int(m))
	}
}

// Label is the column heading used in text reports.
func (m DetectionMethod) Label() string {
	switch m {
	case MethodHash:
		return "Hash"
	case MethodFqn:
		return "FQN"
	case MethodFingerprint:
		return "Fingerprint"
	case MethodCombined:
		return "Combined"
	case MethodDir:
		return "Dir"
	default:
		return m.String()
	}
}

func (m DetectionMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (m *DetectionMethod) UnmarshalText(text []byte) error {
	for _, d := range DetectionMethods {
		if strings.EqualFold(string(text), d.String()) {
			*m = d
			return nil
		}
	}
	return NewInvalidInputError(fmt.Sprintf("unknown detection method: %q", text), nil)
}
