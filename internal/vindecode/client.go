// Package vindecode is the HTTP client for the public VIN decode registry,
// used to fill year/make/model gaps the document text did not cover.
package vindecode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/utils"
)

const defaultBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

type Client struct {
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

func NewClient(baseURL string, logger *utils.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		logger:  logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type decodeResponse struct {
	Results []struct {
		ModelYear string `json:"ModelYear"`
		Make      string `json:"Make"`
		Model     string `json:"Model"`
	} `json:"Results"`
}

// Decode looks the VIN up in the registry. A VIN the registry does not know
// comes back as a zero record, not an error.
func (c *Client) Decode(ctx context.Context, vin string) (models.VehicleRecord, error) {
	url := fmt.Sprintf("%s/DecodeVinValues/%s?format=json", c.baseURL, vin)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return models.VehicleRecord{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.VehicleRecord{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.VehicleRecord{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("VIN decode API error", "status", resp.StatusCode, "vin", vin)
		return models.VehicleRecord{}, fmt.Errorf("VIN decode API returned status %d", resp.StatusCode)
	}

	var decoded decodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return models.VehicleRecord{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return models.VehicleRecord{}, nil
	}

	r := decoded.Results[0]
	return models.VehicleRecord{
		Year:  r.ModelYear,
		Make:  r.Make,
		Model: r.Model,
	}, nil
}
