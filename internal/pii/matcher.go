package pii

import (
	"strings"

	"pwd-analyzer/internal/records"
)

// Match methods, one per tier.
const (
	MethodRegex = "regex"
	MethodFuzzy = "fuzzy"
	MethodNER   = "ner"
)

// Finding is one detected correspondence between a password and a personal
// field or generic identifier pattern. Findings never mutate after creation.
type Finding struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Method string `json:"method"`
}

// Detector is one matching strategy. Detectors are evaluated in priority
// order; the first tier that yields any finding short-circuits the rest.
type Detector interface {
	Name() string
	Detect(password string, recs []records.Record) []Finding
}

// Matcher runs the tiered detection pipeline: structured regex patterns,
// fuzzy matching against supplied records, then the generic entity recognizer
// as a last resort.
type Matcher struct {
	detectors []Detector
}

// NewMatcher wires the three tiers. A nil recognizer falls back to the
// built-in one.
func NewMatcher(recognizer EntityRecognizer) *Matcher {
	if recognizer == nil {
		recognizer = NewBuiltinRecognizer()
	}
	return &Matcher{
		detectors: []Detector{
			&regexDetector{},
			&fuzzyDetector{threshold: fuzzyThreshold},
			&nerDetector{recognizer: recognizer},
		},
	}
}

// Match never fails; an empty password or an empty record set simply narrows
// what the tiers can find. The result is deduplicated by (label, lowercased
// value) and order-preserving.
func (m *Matcher) Match(password string, recs []records.Record) []Finding {
	for _, d := range m.detectors {
		if found := d.Detect(password, recs); len(found) > 0 {
			return dedupe(found)
		}
	}
	return nil
}

func dedupe(findings []Finding) []Finding {
	seen := make(map[string]struct{}, len(findings))
	out := findings[:0]
	for _, f := range findings {
		key := strings.ToLower(f.Label) + "\x00" + strings.ToLower(f.Value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
