package extractor

import (
	"context"
	"errors"
	"strings"

	"github.com/carriernorth/release-form-api/internal/fields"
	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/ocr"
	"github.com/carriernorth/release-form-api/internal/utils"
)

// Below this many characters a PDF text layer is assumed to be a scan with
// incidental metadata text, and OCR runs as well.
const minNativeTextLen = 180

// OCRClient recognizes text in an image or scanned PDF payload.
type OCRClient interface {
	Recognize(ctx context.Context, data []byte, contentType string) (string, error)
}

// Acquirer picks and runs a text-extraction strategy per document. Every
// failure degrades to empty text; the single exception is a missing OCR
// credential, which is configuration and gets surfaced.
type Acquirer struct {
	ocr    OCRClient
	logger *utils.Logger
}

func NewAcquirer(ocrClient OCRClient, logger *utils.Logger) *Acquirer {
	return &Acquirer{ocr: ocrClient, logger: logger}
}

// Acquire returns the best text obtainable for the document, possibly "".
func (a *Acquirer) Acquire(ctx context.Context, doc models.RawDocument) (string, error) {
	contentType := normalizeType(doc.Type)

	switch {
	case contentType == "text/plain":
		if err := ValidateTXT(doc.Data); err != nil {
			a.logger.Warn("Skipping non-text payload", "filename", doc.Name, "error", err)
			return "", nil
		}
		text, err := ExtractTXT(doc.Data)
		if err != nil {
			a.logger.Warn("Failed to decode text file", "filename", doc.Name, "error", err)
			return "", nil
		}
		return text, nil

	case isDOCXContentType(contentType):
		text, err := ExtractDOCX(doc.Data)
		if err != nil {
			a.logger.Warn("Failed to extract DOCX text", "filename", doc.Name, "error", err)
			return "", nil
		}
		return text, nil

	case contentType == "application/pdf":
		return a.acquirePDF(ctx, doc)

	case strings.HasPrefix(contentType, "image/") || contentType == "image":
		return a.runOCR(ctx, doc, "")

	default:
		a.logger.Warn("Unsupported content type", "content_type", doc.Type, "filename", doc.Name)
		return "", nil
	}
}

// acquirePDF reads the native text layer first and adds OCR output when the
// layer is missing, too short, or free of any vehicle line.
func (a *Acquirer) acquirePDF(ctx context.Context, doc models.RawDocument) (string, error) {
	native, err := ExtractPDF(doc.Data)
	if err != nil {
		a.logger.Warn("Failed to read PDF text layer", "filename", doc.Name, "error", err)
		native = ""
	}

	if !NeedsOCR(native) {
		return native, nil
	}

	return a.runOCR(ctx, doc, native)
}

// runOCR calls the OCR service and blank-line concatenates its output after
// any native text already in hand.
func (a *Acquirer) runOCR(ctx context.Context, doc models.RawDocument, native string) (string, error) {
	contentType := normalizeType(doc.Type)
	if contentType == "image" {
		contentType = "image/jpeg"
	}

	text, err := a.ocr.Recognize(ctx, doc.Data, contentType)
	if err != nil {
		if errors.Is(err, ocr.ErrMissingAPIKey) {
			return "", err
		}
		a.logger.Warn("OCR failed", "filename", doc.Name, "error", err)
		return native, nil
	}

	switch {
	case native == "":
		return text, nil
	case text == "":
		return native, nil
	default:
		return native + "\n\n" + text, nil
	}
}

// NeedsOCR decides whether a PDF's native text layer is good enough on its
// own. The length gate fires before the vehicle-line check.
func NeedsOCR(text string) bool {
	if text == "" {
		return true
	}
	if len(text) < minNativeTextLen {
		return true
	}
	return !fields.HasVehicleLine(text)
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "text/txt", "application/txt", "application/x-txt", "txt", "text":
		return "text/plain"
	case "pdf":
		return "application/pdf"
	}
	return t
}

// isDOCXContentType matches the MIME-type variations browsers send for DOCX.
func isDOCXContentType(contentType string) bool {
	docxTypes := []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.wordprocessingml",
		"application/docx",
		"application/x-docx",
		"docx",
	}

	for _, docxType := range docxTypes {
		if contentType == docxType {
			return true
		}
	}

	return false
}
