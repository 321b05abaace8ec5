package records

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// Record is one personal-record row: a mapping from field label (GivenName,
// Surname, StreetAddress, Birthday, ...) to its string value. Fields are
// optional; absent labels are simply not present in the map.
type Record map[string]string

// Get returns a field value, empty when absent.
func (r Record) Get(label string) string { return r[label] }

// Has reports whether a field is present and non-empty.
func (r Record) Has(label string) bool { return strings.TrimSpace(r[label]) != "" }

// genderLabels marks columns that carry no identifying value and would
// otherwise fuzzy-match half the alphabet.
var genderLabels = map[string]struct{}{
	"M": {}, "F": {}, "MALE": {}, "FEMALE": {}, "OTHER": {},
}

// LoadDir loads every .csv file in a directory into one record list. A missing
// directory is not an error; PII matching simply runs without a dataset tier.
func LoadDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var all []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		recs, err := LoadCSV(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable dataset")
			continue
		}
		all = append(all, recs...)
	}
	return all, nil
}

// LoadCSV parses one header-labeled CSV file into records. Files that are not
// valid UTF-8 are decoded as latin-1 before parsing.
func LoadCSV(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(decode(raw)))
}

// Parse reads header-labeled CSV rows into records. Unnamed and gender-like
// columns are dropped.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	keep := make([]bool, len(header))
	for i, label := range header {
		label = strings.TrimSpace(label)
		keep[i] = label != "" && !strings.HasPrefix(label, "Unnamed")
	}
	for i := range header {
		if keep[i] && isGenderColumn(i, rows[1:]) {
			keep[i] = false
		}
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record)
		for i, value := range row {
			if i >= len(header) || !keep[i] {
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" {
				rec[strings.TrimSpace(header[i])] = value
			}
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

// isGenderColumn detects columns whose only values are gender labels, the way
// the dataset tier suppresses them before matching.
func isGenderColumn(col int, rows [][]string) bool {
	unique := make(map[string]struct{})
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.ToUpper(strings.TrimSpace(row[col]))
		if v == "" {
			continue
		}
		if _, ok := genderLabels[v]; !ok {
			return false
		}
		unique[v] = struct{}{}
	}
	return len(unique) > 0 && len(unique) <= 5
}

func decode(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}
