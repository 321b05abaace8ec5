package pii

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"pwd-analyzer/internal/records"
)

// Entity is a recognized span within analyzed text.
type Entity struct {
	Start int
	End   int
	Type  string
}

// EntityRecognizer is the generic named-entity capability behind the last
// detection tier. A heavier recognizer can be injected by the caller; the
// built-in one covers common identifier shapes with pattern heuristics.
type EntityRecognizer interface {
	Analyze(text string) []Entity
}

type entityPattern struct {
	entityType string
	pattern    *regexp.Regexp
	validate   func(match string) bool
}

type builtinRecognizer struct {
	patterns []entityPattern
}

// NewBuiltinRecognizer returns the default recognizer.
func NewBuiltinRecognizer() EntityRecognizer {
	return &builtinRecognizer{patterns: []entityPattern{
		{
			entityType: "IP_ADDRESS",
			pattern:    regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			validate:   validIPv4,
		},
		{
			entityType: "DATE_TIME",
			pattern:    regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
		},
		{
			entityType: "PERSON",
			pattern:    regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`),
			validate:   likelyName,
		},
	}}
}

func (r *builtinRecognizer) Analyze(text string) []Entity {
	var entities []Entity
	for _, p := range r.patterns {
		for _, loc := range p.pattern.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			if p.validate != nil && !p.validate(match) {
				continue
			}
			entities = append(entities, Entity{Start: loc[0], End: loc[1], Type: p.entityType})
		}
	}
	return entities
}

func validIPv4(match string) bool {
	for _, octet := range strings.Split(match, ".") {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// commonWords are capitalized tokens that show up in passwords without naming
// anyone.
var commonWords = map[string]struct{}{
	"Password": {}, "Admin": {}, "Login": {}, "Welcome": {}, "Secret": {},
	"Super": {}, "Qwerty": {}, "Monkey": {}, "Dragon": {}, "Master": {},
}

func likelyName(match string) bool {
	_, common := commonWords[match]
	return !common
}

// nerDetector camel-splits the password and hands it to the recognizer. It
// only ever runs when the structured and record tiers both came up empty.
type nerDetector struct {
	recognizer EntityRecognizer
}

func (d *nerDetector) Name() string { return "ner" }

func (d *nerDetector) Detect(password string, _ []records.Record) []Finding {
	processed := splitCamelCase(password)

	var findings []Finding
	for _, e := range d.recognizer.Analyze(processed) {
		if e.Start < 0 || e.End > len(processed) || e.Start >= e.End {
			continue
		}
		findings = append(findings, Finding{
			Label:  e.Type,
			Value:  processed[e.Start:e.End],
			Method: MethodNER,
		})
	}
	return findings
}

// splitCamelCase inserts a boundary between a lowercase letter and the
// uppercase letter that follows it, so johnSmith analyzes as two tokens.
func splitCamelCase(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 4)

	var prev rune
	for i, r := range text {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
