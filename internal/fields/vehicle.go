// Package fields scans release-form text for the vehicle year/make/model
// line and for labeled values such as transaction ids and form numbers.
package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/vin"
)

// A year token may come back from OCR with I/l for 1 and O/o for 0.
var ymmLineRe = regexp.MustCompile(`((?:19|20)[0-9IlOo]{2})\s+([A-Za-z][A-Za-z0-9&.'/-]+)\s+(.{2,80})`)

var yearRepairer = strings.NewReplacer("I", "1", "l", "1", "O", "0", "o", "0")

var letterRe = regexp.MustCompile(`[A-Za-z]`)

// Document noise words that the YMM pattern mistakes for a make.
var makeStoplist = map[string]bool{
	"vehicle": true, "buyer": true, "seller": true, "date": true,
	"due": true, "pickup": true, "location": true, "proof": true,
	"purchase": true, "paid": true, "keeper": true,
}

// ExtractVehicle scans the whole text line by line and returns the first
// accepted year/make/model match in document order. The zero record means
// nothing matched.
func ExtractVehicle(text string) models.VehicleRecord {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if rec, ok := matchVehicleLine(line); ok {
			return rec
		}
	}
	return models.VehicleRecord{}
}

// ExtractVehicleNearVIN runs the same line scan restricted to a window from
// 500 characters before to 200 characters after the VIN's position. Used to
// disambiguate when a document carries several vehicle-like lines; it can
// disagree with ExtractVehicle and both modes are kept distinct on purpose.
func ExtractVehicleNearVIN(text, vinValue string) models.VehicleRecord {
	idx := vin.Index(text, vinValue)
	if idx < 0 {
		return models.VehicleRecord{}
	}
	start := idx - 500
	if start < 0 {
		start = 0
	}
	end := idx + 200
	if end > len(text) {
		end = len(text)
	}
	return ExtractVehicle(text[start:end])
}

// HasVehicleLine reports whether any line matches the strict YMM pattern.
// The OCR-fallback decision uses this as its content test.
func HasVehicleLine(text string) bool {
	rec := ExtractVehicle(text)
	return rec.Year != ""
}

func matchVehicleLine(line string) (models.VehicleRecord, bool) {
	m := ymmLineRe.FindStringSubmatch(line)
	if m == nil {
		return models.VehicleRecord{}, false
	}
	year, ok := repairYear(m[1])
	if !ok {
		return models.VehicleRecord{}, false
	}
	if makeStoplist[strings.ToLower(m[2])] {
		return models.VehicleRecord{}, false
	}
	model := strings.TrimSpace(m[3])
	if !letterRe.MatchString(model) {
		return models.VehicleRecord{}, false
	}
	return models.VehicleRecord{Year: year, Make: m[2], Model: model}, true
}

// repairYear undoes OCR letter/digit swaps in a year token and accepts only
// values in [1900,2099].
func repairYear(tok string) (string, bool) {
	repaired := yearRepairer.Replace(tok)
	n, err := strconv.Atoi(repaired)
	if err != nil || n < 1900 || n > 2099 {
		return "", false
	}
	return repaired, true
}
