package pii

import (
	"regexp"

	"pwd-analyzer/internal/records"
)

// Structured identifier patterns, applied against the raw password text.
// Compiled once at startup and read-only afterwards.
var regexPatterns = []struct {
	Label   string
	Pattern *regexp.Regexp
}{
	{"EMAIL_ADDRESS", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"PHONE_NUMBER", regexp.MustCompile(`\b(\+?\d{1,3}[- ]?)?\d{10}\b`)},
	{"DATE", regexp.MustCompile(`\b(?:\d{1,2}[/-])?\d{1,2}[/-]\d{2,4}\b`)},
	{"NATIONAL_ID", regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}\b`)},
	{"SOCIAL_HANDLE", regexp.MustCompile(`@[\w]{3,30}`)},
	{"VEHICLE_NUMBER", regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z]{1,2}[0-9]{4}\b`)},
	{"ADDRESS", regexp.MustCompile(`(?i)\b(?:road|street|lane|sector|colony|nagar|marg|vihar|basti|puram|market|avenue|circle|chowk)\b`)},
}

type regexDetector struct{}

func (d *regexDetector) Name() string { return "regex" }

func (d *regexDetector) Detect(password string, _ []records.Record) []Finding {
	var findings []Finding
	for _, p := range regexPatterns {
		for _, match := range p.Pattern.FindAllString(password, -1) {
			findings = append(findings, Finding{
				Label:  p.Label,
				Value:  match,
				Method: MethodRegex,
			})
		}
	}
	return findings
}
