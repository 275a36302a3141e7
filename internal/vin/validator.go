// Package vin validates and recovers 17-character Vehicle Identification
// Numbers from OCR-derived text using the ISO 3779 check digit.
package vin

import (
	"regexp"
	"strings"
)

// ISO 3779 letter values. I, O and Q are not part of the VIN alphabet.
var translit = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7,
	'8': 8, '9': 9,
}

var weights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

var (
	alphabetRe  = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	nonAlnumRe  = regexp.MustCompile(`[^A-Z0-9]`)
	hasDigitRe  = regexp.MustCompile(`[0-9]`)
	labelRe     = regexp.MustCompile(`(?i)\bVIN\b[^A-Za-z0-9]{0,10}([A-Za-z0-9][A-Za-z0-9 .\-]{15,60})`)
	bareTokenRe = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	looseSeqRe  = regexp.MustCompile(`[A-Za-z0-9](?:[ .\-]?[A-Za-z0-9]){16,40}`)
)

// Repair uppercases the candidate, strips separators, and undoes the common
// OCR substitutions for the excluded letters: I→1, O→0, Q→0.
func Repair(candidate string) string {
	s := strings.ToUpper(candidate)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("I", "1", "O", "0", "Q", "0").Replace(s)
	return s
}

// CheckDigit computes the ISO 3779 check digit for a 17-character VIN.
// Returns 0 when any character falls outside the transliteration table.
func CheckDigit(v string) byte {
	if len(v) != 17 {
		return 0
	}
	sum := 0
	for i := 0; i < 17; i++ {
		val, ok := translit[v[i]]
		if !ok {
			return 0
		}
		sum += val * weights[i]
	}
	rem := sum % 11
	if rem == 10 {
		return 'X'
	}
	return byte('0' + rem)
}

// IsValid reports whether the repaired candidate is a structurally valid VIN:
// 17 in-alphabet characters, at least one digit, and a matching check digit
// at position 9. Candidates that fail the check digit are discarded outright.
func IsValid(candidate string) bool {
	v := Repair(candidate)
	if !alphabetRe.MatchString(v) {
		return false
	}
	if !hasDigitRe.MatchString(v) {
		return false
	}
	return CheckDigit(v) == v[8]
}

// Find scans text for a VIN, in priority order: a value following a "VIN"
// label, then any bare 17-character in-alphabet token, then loosely spaced
// 17-character runs. The first candidate that validates wins; no candidate
// yields "" (a VIN is optional downstream).
func Find(text string) string {
	for _, m := range labelRe.FindAllStringSubmatch(text, -1) {
		repaired := Repair(m[1])
		if len(repaired) >= 17 {
			repaired = repaired[:17]
		}
		if IsValid(repaired) {
			return repaired
		}
	}

	for _, tok := range bareTokenRe.FindAllString(text, -1) {
		if IsValid(tok) {
			return tok
		}
	}

	for _, seq := range looseSeqRe.FindAllString(text, -1) {
		repaired := Repair(seq)
		if len(repaired) < 17 {
			continue
		}
		for i := 0; i+17 <= len(repaired); i++ {
			if IsValid(repaired[i : i+17]) {
				return repaired[i : i+17]
			}
		}
	}

	return ""
}

// Index returns the byte offset of the first occurrence of the VIN in text,
// tolerant of the OCR substitutions Repair undoes. Returns -1 when absent.
func Index(text, v string) int {
	if v == "" {
		return -1
	}
	if i := strings.Index(text, v); i >= 0 {
		return i
	}
	up := strings.ToUpper(text)
	for i := 0; i+17 <= len(up); i++ {
		if Repair(up[i:i+17]) == v {
			return i
		}
	}
	return -1
}
