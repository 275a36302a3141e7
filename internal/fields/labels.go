package fields

import (
	"regexp"

	"github.com/carriernorth/release-form-api/internal/models"
)

var (
	transactionIDRe = regexp.MustCompile(`(?i)\btransaction\s*(?:id|no\.?|number)?\s*[:#]\s*([A-Za-z0-9-]{3,40})`)
	formNumberRe    = regexp.MustCompile(`(?i)\brelease\s*(?:form)?\s*(?:no\.?|number|#)\s*[:#]?\s*([A-Za-z0-9-]{2,40})`)
	dateRe          = regexp.MustCompile(`\b(?:\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})\b`)
)

// ExtractLabels pulls the labeled incidentals a release form carries next to
// the vehicle block. Missing labels stay empty; dates are collected in
// document order, deduplicated.
func ExtractLabels(text string) models.LabeledFields {
	var out models.LabeledFields

	if m := transactionIDRe.FindStringSubmatch(text); m != nil {
		out.TransactionID = m[1]
	}
	if m := formNumberRe.FindStringSubmatch(text); m != nil {
		out.ReleaseFormNumber = m[1]
	}

	seen := map[string]bool{}
	for _, d := range dateRe.FindAllString(text, -1) {
		if !seen[d] {
			seen[d] = true
			out.Dates = append(out.Dates, d)
		}
	}
	return out
}
