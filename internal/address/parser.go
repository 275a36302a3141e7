// Package address turns free-text address strings into a structured
// breakdown and composes breakdowns back into the canonical display form.
package address

import (
	"regexp"
	"strings"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/postal"
)

var countryAliases = map[string]string{
	"CA":                    "Canada",
	"CAN":                   "Canada",
	"CANADA":                "Canada",
	"US":                    "USA",
	"USA":                   "USA",
	"UNITEDSTATES":          "USA",
	"UNITEDSTATESOFAMERICA": "USA",
}

var (
	unitRe          = regexp.MustCompile(`(?i)\b(?:apt|apartment|suite|unit)\b\s*#?\s*([A-Za-z0-9-]+)`)
	bareUnitRe      = regexp.MustCompile(`#\s*([A-Za-z0-9-]+)`)
	embeddedCtryRe  = regexp.MustCompile(`\b(CA|CAN|US|USA)\b`)
	postalTokenRe   = regexp.MustCompile(`\b[A-Za-z0-9]{3}\s?[A-Za-z0-9]{3}\b`)
	leadingNumberRe = regexp.MustCompile(`^(\d+[A-Za-z]?)\s+(.+)$`)
	digitRe         = regexp.MustCompile(`\d`)
	nonLetterRe     = regexp.MustCompile(`[^A-Za-z]`)
)

// Parse breaks a free-text or comma-delimited address into its components.
// It never errors: fields it cannot place with confidence are left empty.
func Parse(addressText string) models.AddressBreakdown {
	var b models.AddressBreakdown

	parts := splitParts(addressText)
	if len(parts) == 0 {
		b.Country = "Canada"
		return b
	}

	parts, b.Unit = extractUnit(parts)
	parts, b.Country = extractCountry(parts)

	var line1, city, area, provPostal string
	n := len(parts)
	switch {
	case n >= 3:
		line1, city, provPostal = parts[n-3], parts[n-2], parts[n-1]
	case n == 2:
		line1 = parts[0]
		if segHasProvinceOrPostal(parts[1]) {
			provPostal = parts[1]
		} else {
			city = parts[1]
		}
	case n == 1:
		line1 = parts[0]
	}

	// Prefer the first part that looks like a street address (has a digit,
	// is not the province/postal segment) as line1, re-deriving the other
	// segments around its position.
	if idx := firstStreetLike(parts); idx >= 0 && parts[idx] != line1 {
		line1 = parts[idx]
		city, area, provPostal = "", "", ""
		if n-1 > idx {
			provPostal = parts[n-1]
		}
		if n-2 > idx {
			city = parts[n-2]
		}
		if n-2 > idx+1 {
			area = strings.Join(parts[idx+1:n-2], ", ")
		}
	} else if n >= 4 && line1 == parts[n-3] {
		area = strings.Join(parts[:n-3], ", ")
	}

	b.Province, b.PostalCode = extractProvincePostal(provPostal)

	// "…, Montreal, QC, H1Z 3B8": the province rides in its own part, so the
	// city slot resolves to a bare province code. Fold it in and promote the
	// preceding part to city.
	if b.Province == "" && city != "" && !digitRe.MatchString(city) {
		if code := postal.NormalizeProvince(city); code != "" {
			b.Province = code
			city = ""
			if area != "" {
				areaParts := splitParts(area)
				city = areaParts[len(areaParts)-1]
				area = strings.Join(areaParts[:len(areaParts)-1], ", ")
			}
		}
	}

	// Single-segment addresses carry everything in one string; pull the
	// province/postal tail out of it before splitting number and street.
	if n == 1 && line1 != "" && segHasProvinceOrPostal(line1) {
		b.Province, b.PostalCode = extractProvincePostal(line1)
		line1 = stripProvincePostal(line1, b.Province, b.PostalCode)
	}

	if b.Country == "" {
		b.Country = "Canada"
	}
	if b.Province == "" && b.PostalCode != "" && b.Country == "Canada" {
		b.Province = postal.InferProvinceFromPostal(b.PostalCode)
	}

	b.City = city
	b.Area = area
	b.Number, b.Street = splitStreetLine(line1)
	return b
}

// Compose joins a breakdown into the canonical single-line display form,
// dropping empty segments. Not guaranteed to re-parse losslessly.
func Compose(b models.AddressBreakdown) string {
	var segs []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	add(strings.TrimSpace(b.Number + " " + b.Street))
	add(b.Unit)
	add(b.Area)
	add(b.City)
	pc := b.PostalCode
	if pc != "" {
		pc = postal.NormalizePostalCode(pc)
	}
	add(strings.TrimSpace(b.Province + " " + pc))
	add(b.Country)
	return strings.Join(segs, ", ")
}

func splitParts(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func extractUnit(parts []string) ([]string, string) {
	for i, p := range parts {
		m := unitRe.FindStringSubmatch(p)
		if m == nil {
			// A bare #token only counts when it is not the whole part's
			// leading street number.
			if bm := bareUnitRe.FindStringSubmatch(p); bm != nil {
				m = bm
			}
		}
		if m == nil {
			continue
		}
		rest := strings.TrimSpace(strings.Replace(p, m[0], "", 1))
		rest = strings.Trim(rest, " -,")
		if rest == "" {
			parts = append(parts[:i], parts[i+1:]...)
		} else {
			parts[i] = rest
		}
		return parts, m[1]
	}
	return parts, ""
}

func extractCountry(parts []string) ([]string, string) {
	if len(parts) == 0 {
		return parts, ""
	}
	last := parts[len(parts)-1]
	key := strings.ToUpper(nonLetterRe.ReplaceAllString(last, ""))
	if c, ok := countryAliases[key]; ok {
		return parts[:len(parts)-1], c
	}
	// An embedded CA/US token inside the last segment sets the country
	// without consuming the segment.
	if m := embeddedCtryRe.FindString(last); m != "" {
		stripped := strings.TrimSpace(strings.Replace(last, m, "", 1))
		stripped = strings.Trim(stripped, " ,")
		if stripped != "" {
			parts[len(parts)-1] = stripped
		} else {
			parts = parts[:len(parts)-1]
		}
		return parts, countryAliases[m]
	}
	return parts, ""
}

func firstStreetLike(parts []string) int {
	for i, p := range parts {
		if digitRe.MatchString(p) && !segHasProvinceOrPostal(p) {
			return i
		}
	}
	return -1
}

func segHasProvinceOrPostal(seg string) bool {
	prov, pc := extractProvincePostal(seg)
	return prov != "" || pc != ""
}

// extractProvincePostal pulls a province code and a postal code out of a
// segment like "QC H1Z 3B8". Whichever is not found is returned empty.
func extractProvincePostal(seg string) (prov, pc string) {
	for _, cand := range postalTokenRe.FindAllString(seg, -1) {
		norm := postal.NormalizePostalCode(cand)
		if postal.IsValidPostalCode(norm) {
			pc = norm
			break
		}
	}
	for _, tok := range strings.Fields(seg) {
		tok = strings.Trim(tok, ".,")
		if code := postal.NormalizeProvince(tok); code != "" {
			prov = code
			break
		}
	}
	return prov, pc
}

func stripProvincePostal(seg, prov, pc string) string {
	if pc != "" {
		compact := strings.ReplaceAll(pc, " ", "")
		for _, cand := range postalTokenRe.FindAllString(seg, -1) {
			if postal.NormalizePostalCode(cand) == pc || strings.ReplaceAll(strings.ToUpper(cand), " ", "") == compact {
				seg = strings.Replace(seg, cand, "", 1)
				break
			}
		}
	}
	if prov != "" {
		fields := strings.Fields(seg)
		for i, tok := range fields {
			if postal.NormalizeProvince(strings.Trim(tok, ".,")) == prov {
				seg = strings.Join(append(fields[:i:i], fields[i+1:]...), " ")
				break
			}
		}
	}
	return strings.Trim(strings.TrimSpace(seg), ",")
}

// splitStreetLine separates a leading civic number (digits plus an optional
// single letter) from the street name, repairing known OCR damage.
func splitStreetLine(line1 string) (number, street string) {
	line1 = strings.TrimSpace(line1)
	if line1 == "" {
		return "", ""
	}
	if m := leadingNumberRe.FindStringSubmatch(line1); m != nil {
		return m[1], postal.RepairStreetOCR(strings.TrimSpace(m[2]))
	}
	return "", postal.RepairStreetOCR(line1)
}
