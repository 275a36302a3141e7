// Package pickup selects the single authoritative pickup address out of a
// document that may also carry buyer, seller and drop-off addresses.
package pickup

import (
	"regexp"
	"sort"
	"strings"

	"github.com/carriernorth/release-form-api/internal/address"
	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/postal"
)

const (
	// Search window after a "Pickup Location" heading.
	headingWindow = 700
	// Context considered when scoring a candidate.
	contextWindow = 220
)

const provinceAlt = `AB|BC|MB|NB|NL|NS|NT|NU|ON|PE|QC|SK|YT|` +
	`Alberta|British Columbia|Manitoba|New Brunswick|Newfoundland(?: and Labrador)?|` +
	`Nova Scotia|Northwest Territories|Nunavut|Ontario|Prince Edward Island|` +
	`Quebec|Saskatchewan|Yukon`

const postalPat = `[A-Za-z]\d[A-Za-z]\s?\d[A-Za-z]\d`

var (
	// Tolerates the I/l/1 swaps OCR makes inside the heading itself.
	headingRe = regexp.MustCompile(`(?i)P[IL1]CKUP\s+LOCAT[IL1]ON`)

	strictAddrRe = regexp.MustCompile(`(?i)\d+[A-Za-z]?\s+[0-9A-Za-z .'\-]{2,60},\s*[A-Za-z .'\-]{2,40},\s*(?:` +
		provinceAlt + `)[,\s]+` + postalPat)

	looseAddrRe = regexp.MustCompile(`(?i)(\d+[A-Za-z]?\s+[0-9A-Za-z .'\-]{2,60})[,\s]+([A-Za-z .'\-]{2,40})[,\s]+(` +
		provinceAlt + `)\s+(` + postalPat + `)`)
)

type candidate struct {
	breakdown models.AddressBreakdown
	offset    int
	score     int
}

// Resolve returns the best pickup address found in text, or nil when no
// candidate parses to a complete, valid address.
func Resolve(text string) *models.AddressBreakdown {
	// A "Pickup Location" heading narrows the first attempt to the text
	// right after it; a strict single match there wins outright.
	window := text
	if loc := headingRe.FindStringIndex(text); loc != nil {
		end := loc[1] + headingWindow
		if end > len(text) {
			end = len(text)
		}
		window = text[loc[1]:end]
	}
	if matches := strictAddrRe.FindAllString(window, 2); len(matches) == 1 {
		if b, ok := parseCandidate(matches[0]); ok {
			return &b
		}
	}

	// Otherwise collect every plausible match in the whole document and
	// score each by its preceding context.
	cands := collectCandidates(text)
	if len(cands) == 0 {
		return nil
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return &best.breakdown
}

func collectCandidates(text string) []candidate {
	var cands []candidate
	covered := make([][2]int, 0, 4)

	add := func(loc []int, matched string) {
		for _, c := range covered {
			if loc[0] < c[1] && loc[1] > c[0] {
				return
			}
		}
		b, ok := parseCandidate(matched)
		if !ok {
			return
		}
		covered = append(covered, [2]int{loc[0], loc[1]})
		cands = append(cands, candidate{
			breakdown: b,
			offset:    loc[0],
			score:     scoreContext(text, loc[0]),
		})
	}

	for _, loc := range strictAddrRe.FindAllStringIndex(text, -1) {
		add(loc, text[loc[0]:loc[1]])
	}
	// Loose matches have no commas to split on; rebuild a comma-delimited
	// string from the capture groups so the parser sees clean segments.
	for _, m := range looseAddrRe.FindAllStringSubmatchIndex(text, -1) {
		loc := m[:2]
		seg := func(i int) string { return strings.TrimSpace(text[m[2*i]:m[2*i+1]]) }
		add(loc, seg(1)+", "+seg(2)+", "+seg(3)+" "+seg(4))
	}

	// Ties are broken by document order regardless of which grammar matched.
	sort.Slice(cands, func(i, j int) bool { return cands[i].offset < cands[j].offset })
	return cands
}

// parseCandidate parses a matched span and keeps it only when the breakdown
// is complete enough to act on: a street line, a city, a province and a
// postal code that validates and whose prefix agrees with the province.
func parseCandidate(matched string) (models.AddressBreakdown, bool) {
	b := address.Parse(matched)
	if b.Street == "" && b.Number == "" {
		return b, false
	}
	if b.City == "" || b.Province == "" {
		return b, false
	}
	if !postal.IsValidPostalCode(b.PostalCode) {
		return b, false
	}
	// An Ontario province next to an H-prefix postal code means at least one
	// of the two was misread; drop the candidate rather than guess which.
	if !postal.PostalPrefixAllowsProvince(b.PostalCode, b.Province) {
		return b, false
	}
	return b, true
}

// scoreContext rates the 220 characters before the match. Pickup wording is
// a strong positive, drop-off a weak one; seller-side wording pushes the
// candidate down.
func scoreContext(text string, offset int) int {
	start := offset - contextWindow
	if start < 0 {
		start = 0
	}
	ctx := strings.ToLower(text[start:offset])

	score := 0
	if strings.Contains(ctx, "pickup") || strings.Contains(ctx, "vehicle location") || strings.Contains(ctx, "location") {
		score += 4
	}
	if strings.Contains(ctx, "drop-off") || strings.Contains(ctx, "drop off") || strings.Contains(ctx, "dropoff") {
		score++
	}
	if strings.Contains(ctx, "seller") || strings.Contains(ctx, "dealer") || strings.Contains(ctx, "selling") {
		score -= 3
	}
	if strings.Contains(ctx, "buyer") {
		score--
	}
	return score
}
