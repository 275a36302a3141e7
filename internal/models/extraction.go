package models

import (
	"time"
)

// RawDocument is one uploaded file, exactly as received. It lives for the
// duration of a single extraction request.
type RawDocument struct {
	Name    string
	Type    string // declared MIME type or a hint like "image"
	DocType string // caller-supplied classification, e.g. "release_form"
	Data    []byte
}

// UploadedFile is the JSON wire form of a RawDocument. Data is base64.
// Multipart uploads are converted into the same shape so that the service
// layer sees one input type regardless of transport.
type UploadedFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	DocType string `json:"doc_type,omitempty"`
	Data    string `json:"data"`
}

// FileText is the per-document extraction outcome. An empty Text is a valid
// terminal value: failing to read a document is data, not an error.
type FileText struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	DocType string `json:"doc_type,omitempty"`
	Text    string `json:"text"`
}

// VehicleRecord identifies the shipped vehicle. Every field is optional; a
// non-empty VIN is 17 characters from the VIN alphabet with a matching check
// digit, and a non-empty Year is a 4-digit string in [1900,2099].
type VehicleRecord struct {
	VIN   string `json:"vin,omitempty"`
	Year  string `json:"year,omitempty"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// Complete reports whether year, make and model are all present.
func (v VehicleRecord) Complete() bool {
	return v.Year != "" && v.Make != "" && v.Model != ""
}

// MergeVehicles folds records in priority order: for each field the first
// non-blank value wins and is never overwritten by a later record.
func MergeVehicles(records ...VehicleRecord) VehicleRecord {
	var out VehicleRecord
	for _, r := range records {
		if out.VIN == "" {
			out.VIN = r.VIN
		}
		if out.Year == "" {
			out.Year = r.Year
		}
		if out.Make == "" {
			out.Make = r.Make
		}
		if out.Model == "" {
			out.Model = r.Model
		}
	}
	return out
}

// AddressBreakdown is the canonical decomposition of a pickup address.
// Province is empty or a 2-letter code; PostalCode is empty or "A#A #A#";
// Country is "Canada", "USA", or free text when neither alias matched.
type AddressBreakdown struct {
	Number     string `json:"number,omitempty"`
	Street     string `json:"street,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Area       string `json:"area,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// LabeledFields carries the incidental labeled values a release form exposes
// alongside the vehicle block.
type LabeledFields struct {
	TransactionID     string   `json:"transaction_id,omitempty"`
	ReleaseFormNumber string   `json:"release_form_number,omitempty"`
	Dates             []string `json:"dates,omitempty"`
}

// ExtractionResult is the full outcome of one extraction request.
type ExtractionResult struct {
	ID             string            `json:"id,omitempty"`
	CombinedText   string            `json:"combined_text"`
	Vehicle        VehicleRecord     `json:"vehicle"`
	PickupLocation *AddressBreakdown `json:"pickup_location"`
	Labels         LabeledFields     `json:"labels"`
	Files          []FileText        `json:"files"`
	CreatedAt      time.Time         `json:"created_at,omitempty"`
}

// Extraction is the persisted row backing a stored ExtractionResult.
type Extraction struct {
	ID           string    `json:"id" db:"id"`
	CombinedText string    `json:"combined_text" db:"combined_text"`
	VIN          string    `json:"vin" db:"vin"`
	Year         string    `json:"year" db:"year"`
	Make         string    `json:"make" db:"make"`
	Model        string    `json:"model" db:"model"`
	PickupJSON   string    `json:"-" db:"pickup_json"`
	LabelsJSON   string    `json:"-" db:"labels_json"`
	FilesJSON    string    `json:"-" db:"files_json"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ExtractRequest is the JSON request body for POST /extractions.
type ExtractRequest struct {
	Files []UploadedFile `json:"files"`
}
