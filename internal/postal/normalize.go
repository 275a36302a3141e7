// Package postal canonicalizes Canadian postal codes, province codes and
// country tokens, repairing the letter/digit confusions that OCR introduces.
package postal

import (
	"regexp"
	"strings"
)

// The 13 provincial and territorial codes.
var provinceCodes = map[string]bool{
	"AB": true, "BC": true, "MB": true, "NB": true, "NL": true,
	"NS": true, "NT": true, "NU": true, "ON": true, "PE": true,
	"QC": true, "SK": true, "YT": true,
}

var provinceNames = map[string]string{
	"ALBERTA":                  "AB",
	"BRITISHCOLUMBIA":          "BC",
	"MANITOBA":                 "MB",
	"NEWBRUNSWICK":             "NB",
	"NEWFOUNDLAND":             "NL",
	"NEWFOUNDLANDANDLABRADOR":  "NL",
	"NOVASCOTIA":               "NS",
	"NORTHWESTTERRITORIES":     "NT",
	"NUNAVUT":                  "NU",
	"ONTARIO":                  "ON",
	"PRINCEEDWARDISLAND":       "PE",
	"QUEBEC":                   "QC",
	"QUBEC":                    "QC", // "Québec" after accent stripping
	"SASKATCHEWAN":             "SK",
	"YUKON":                    "YT",
}

// First letter of a postal code to the province it belongs to. X serves both
// NT and NU; it maps to NT here and postalPrefixes carries both.
var postalFirstLetter = map[byte]string{
	'T': "AB", 'V': "BC", 'R': "MB", 'E': "NB", 'A': "NL",
	'B': "NS", 'X': "NT", 'K': "ON", 'L': "ON", 'M': "ON",
	'N': "ON", 'P': "ON", 'C': "PE", 'G': "QC", 'H': "QC",
	'J': "QC", 'S': "SK", 'Y': "YT",
}

// Allowed postal-code first letters per province.
var postalPrefixes = map[string]string{
	"AB": "T", "BC": "V", "MB": "R", "NB": "E", "NL": "A",
	"NS": "B", "NT": "X", "NU": "X", "ON": "KLMNP", "PE": "C",
	"QC": "GHJ", "SK": "S", "YT": "Y",
}

var postalCodeRe = regexp.MustCompile(`(?i)^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`)

var nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizePostalCode uppercases and compacts s, then enforces the Canadian
// letter/digit alternation positionally, remapping the usual OCR confusions
// (1→I, 0/Q→O in letter slots; I→1, O→0 in digit slots). Anything that does
// not compact to exactly 6 characters is returned trimmed and uppercased but
// otherwise untouched: a malformed code is never guessed into shape.
func NormalizePostalCode(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	compact := nonAlnumRe.ReplaceAllString(up, "")
	if len(compact) != 6 {
		return up
	}

	out := []byte(compact)
	for i := 0; i < 6; i++ {
		c := out[i]
		if i%2 == 0 {
			// Letter slot.
			switch c {
			case '1':
				out[i] = 'I'
			case '0', 'Q':
				out[i] = 'O'
			}
		} else {
			// Digit slot.
			switch c {
			case 'I':
				out[i] = '1'
			case 'O':
				out[i] = '0'
			}
		}
	}

	return string(out[:3]) + " " + string(out[3:])
}

// IsValidPostalCode reports whether s matches the A#A #A# pattern, with or
// without the separating space.
func IsValidPostalCode(s string) bool {
	return postalCodeRe.MatchString(strings.TrimSpace(s))
}

var nonLetterRe = regexp.MustCompile(`[^A-Za-z]`)

// NormalizeProvince resolves s to a 2-letter province code. A known code
// passes through; full names (any casing, stray punctuation) resolve via the
// name table. Unknown input yields "" rather than a guess.
func NormalizeProvince(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if provinceCodes[up] {
		return up
	}
	compact := strings.ToUpper(nonLetterRe.ReplaceAllString(s, ""))
	if code, ok := provinceNames[compact]; ok {
		return code
	}
	return ""
}

// InferProvinceFromPostal maps the first letter of a normalized postal code
// to its province. Returns "" when the letter has no mapping.
func InferProvinceFromPostal(code string) string {
	norm := NormalizePostalCode(code)
	if norm == "" {
		return ""
	}
	return postalFirstLetter[norm[0]]
}

// PostalPrefixAllowsProvince reports whether the postal code's first letter is
// consistent with the given province. It is a validation gate only; callers
// must not use it to rewrite either value.
func PostalPrefixAllowsProvince(postalCode, province string) bool {
	norm := NormalizePostalCode(postalCode)
	prov := NormalizeProvince(province)
	if norm == "" || prov == "" {
		return false
	}
	return strings.IndexByte(postalPrefixes[prov], norm[0]) >= 0
}

// Known OCR mis-reads seen on scanned Quebec street lines: the ordinal "10e"
// comes back with the 1 read as l/I and the 0 read as o/O.
var streetOcrRepairs = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\b[lI1][0oO]e(\s+(?:avenue|ave|rue)\b)`), "10e$1"},
	{regexp.MustCompile(`(?i)\b[lI][0oO](\s+(?:avenue|ave|rue)\b)`), "10$1"},
}

// RepairStreetOCR applies the known mis-read table to a street segment. It is
// deliberately narrow: only patterns observed in real scans are repaired.
func RepairStreetOCR(street string) string {
	for _, r := range streetOcrRepairs {
		street = r.re.ReplaceAllString(street, r.repl)
	}
	return street
}
