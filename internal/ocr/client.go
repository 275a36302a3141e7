// Package ocr is the HTTP client for the OCR service used as a fallback text
// source for scans and photos without a digital text layer.
package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carriernorth/release-form-api/internal/utils"
)

// ErrMissingAPIKey is the one extraction error that reaches the caller: it
// means the service is misconfigured, not that a document was bad.
var ErrMissingAPIKey = errors.New("ocr: API key is not configured")

const defaultEndpoint = "https://api.ocr.space/parse/image"

type Client struct {
	apiKey   string
	endpoint string
	language string
	logger   *utils.Logger
	client   *http.Client
}

func NewClient(apiKey, endpoint, language string, logger *utils.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if language == "" {
		language = "eng"
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		language: language,
		logger:   logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage,omitempty"`
}

// Recognize submits the payload as a base64 data URI with a language and
// orientation hint and returns the recognized plain text.
func (c *Client) Recognize(ctx context.Context, data []byte, contentType string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	form := url.Values{}
	form.Set("base64Image", fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)))
	form.Set("language", c.language)
	form.Set("detectOrientation", "true")
	form.Set("scale", "true")
	form.Set("isOverlayRequired", "false")
	form.Set("OCREngine", "2")

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("OCR API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("OCR API returned status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("OCR processing failed: %s", string(parsed.ErrorMessage))
	}

	var textBuilder strings.Builder
	for _, r := range parsed.ParsedResults {
		if r.ParsedText == "" {
			continue
		}
		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(r.ParsedText)
	}

	return strings.TrimSpace(textBuilder.String()), nil
}
