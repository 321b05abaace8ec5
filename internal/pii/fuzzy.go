package pii

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"pwd-analyzer/internal/records"
)

// fuzzyThreshold is the partial-similarity score (out of 100) above which a
// record field counts as reflected in the password.
const fuzzyThreshold = 50

// Field labels with structured decomposition instead of whole-value matching.
const (
	labelStreetAddress = "StreetAddress"
	labelTelephone     = "TelephoneNumber"
	labelBirthday      = "Birthday"
)

var digitRuns = regexp.MustCompile(`\d+`)

// fuzzyDetector matches every field of every supplied record against the
// password with case-insensitive partial similarity. Addresses split into
// words, phone numbers scan as 4-digit windows, birthdates decompose into
// year and month-day tokens.
type fuzzyDetector struct {
	threshold int
}

func (d *fuzzyDetector) Name() string { return "fuzzy" }

func (d *fuzzyDetector) Detect(password string, recs []records.Record) []Finding {
	if password == "" {
		return nil
	}
	lowered := strings.ToLower(password)

	var findings []Finding
	for _, rec := range recs {
		for label, value := range rec {
			switch label {
			case labelStreetAddress:
				findings = append(findings, d.matchAddress(label, value, lowered)...)
			case labelTelephone:
				findings = append(findings, d.matchPhone(label, value, lowered)...)
			case labelBirthday:
				findings = append(findings, d.matchBirthday(label, value, lowered)...)
			default:
				if d.similar(strings.ToLower(value), lowered) {
					findings = append(findings, Finding{Label: label, Value: value, Method: MethodFuzzy})
				}
			}
		}
	}
	return findings
}

func (d *fuzzyDetector) similar(value, lowered string) bool {
	if value == "" {
		return false
	}
	return fuzzy.PartialRatio(value, lowered) > d.threshold
}

// matchAddress checks each word of the address long enough to be meaningful.
func (d *fuzzyDetector) matchAddress(label, value, lowered string) []Finding {
	for _, part := range strings.Fields(strings.ToLower(value)) {
		if len(part) >= 3 && d.similar(part, lowered) {
			return []Finding{{Label: label, Value: part, Method: MethodFuzzy}}
		}
	}
	return nil
}

// matchPhone strips separators and scans 4-digit windows, then the whole
// number.
func (d *fuzzyDetector) matchPhone(label, value, lowered string) []Finding {
	digits := strings.Join(digitRuns.FindAllString(value, -1), "")
	if len(digits) < 4 {
		return nil
	}

	for i := 0; i+4 <= len(digits); i++ {
		if d.similar(digits[i:i+4], lowered) {
			return []Finding{{Label: label, Value: digits[i : i+4], Method: MethodFuzzy}}
		}
	}
	if d.similar(digits, lowered) {
		return []Finding{{Label: label, Value: digits, Method: MethodFuzzy}}
	}
	return nil
}

// matchBirthday decomposes a date into its year, the full date with
// separators removed, and the month-day pair.
func (d *fuzzyDetector) matchBirthday(label, value, lowered string) []Finding {
	parts := digitRuns.FindAllString(value, -1)
	if len(parts) == 0 {
		return nil
	}

	var findings []Finding
	if len(parts) >= 3 && len(parts[2]) == 4 && d.similar(parts[2], lowered) {
		findings = append(findings, Finding{Label: label, Value: parts[2], Method: MethodFuzzy})
	}

	flattened := strings.NewReplacer("/", "", "-", "").Replace(value)
	if flattened != "" && strings.Contains(lowered, strings.ToLower(flattened)) {
		findings = append(findings, Finding{Label: label, Value: flattened, Method: MethodFuzzy})
	}

	if len(parts) >= 2 {
		monthDay := parts[0] + parts[1]
		if d.similar(monthDay, lowered) {
			findings = append(findings, Finding{Label: label, Value: monthDay, Method: MethodFuzzy})
		}
	}
	return findings
}
