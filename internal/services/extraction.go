package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carriernorth/release-form-api/internal/fields"
	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/carriernorth/release-form-api/internal/ocr"
	"github.com/carriernorth/release-form-api/internal/pickup"
	"github.com/carriernorth/release-form-api/internal/repository"
	"github.com/carriernorth/release-form-api/internal/storage"
	"github.com/carriernorth/release-form-api/internal/utils"
	"github.com/carriernorth/release-form-api/internal/vin"
)

// TextAcquirer turns one uploaded document into text, possibly "".
type TextAcquirer interface {
	Acquire(ctx context.Context, doc models.RawDocument) (string, error)
}

// VINDecoder fills vehicle fields from a registry lookup by VIN.
type VINDecoder interface {
	Decode(ctx context.Context, vin string) (models.VehicleRecord, error)
}

type ExtractionService interface {
	Extract(ctx context.Context, docs []models.RawDocument) (*models.ExtractionResult, error)
	GetExtraction(ctx context.Context, id string) (*models.ExtractionResult, error)
	GetOriginalDocument(ctx context.Context, id, filename string) ([]byte, string, error)
	DeleteExtraction(ctx context.Context, id string) error
}

type extractionService struct {
	repo     repository.Repository
	storage  storage.Storage
	acquirer TextAcquirer
	decoder  VINDecoder
	logger   *utils.Logger
}

func NewService(repo repository.Repository, store storage.Storage, acquirer TextAcquirer, decoder VINDecoder, logger *utils.Logger) ExtractionService {
	return &extractionService{
		repo:     repo,
		storage:  store,
		acquirer: acquirer,
		decoder:  decoder,
		logger:   logger,
	}
}

// Extract runs the full pipeline over the uploaded files, in order: acquire
// text per file, merge, then pull the vehicle identity and pickup address out
// of the combined text. Per-document failures degrade to empty fields; the
// result always comes back unless the OCR credential is missing.
func (s *extractionService) Extract(ctx context.Context, docs []models.RawDocument) (*models.ExtractionResult, error) {
	id := utils.GenerateID()

	var combined strings.Builder
	files := make([]models.FileText, 0, len(docs))

	for _, doc := range docs {
		s.archiveOriginal(ctx, id, doc)

		text, err := s.acquirer.Acquire(ctx, doc)
		if err != nil {
			if errors.Is(err, ocr.ErrMissingAPIKey) {
				s.logger.Error("OCR credential missing", "filename", doc.Name)
				return nil, utils.NewInternalError("OCR service is not configured")
			}
			// Anything else is a bad document, not a bad request
			s.logger.Warn("Text acquisition failed", "filename", doc.Name, "error", err)
			text = ""
		}

		files = append(files, models.FileText{
			Name:    doc.Name,
			Type:    doc.Type,
			DocType: doc.DocType,
			Text:    text,
		})

		if text != "" {
			if combined.Len() > 0 {
				combined.WriteString("\n\n")
			}
			combined.WriteString(text)
		}
	}

	combinedText := combined.String()

	vehicle := s.resolveVehicle(ctx, combinedText)
	pickupLocation := pickup.Resolve(combinedText)
	labels := fields.ExtractLabels(combinedText)

	result := &models.ExtractionResult{
		ID:             id,
		CombinedText:   combinedText,
		Vehicle:        vehicle,
		PickupLocation: pickupLocation,
		Labels:         labels,
		Files:          files,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, result); err != nil {
		// The extraction itself succeeded; losing the stored copy is not
		// worth failing the request over.
		s.logger.Error("Failed to persist extraction", "error", err, "id", id)
	}

	s.logger.Info("Extraction completed",
		"id", id,
		"files", len(files),
		"vin", vehicle.VIN,
		"has_pickup", pickupLocation != nil)

	return result, nil
}

// resolveVehicle merges the three vehicle sources in priority order: the
// whole-document scan, the scan windowed around the VIN, then the decode
// registry. A field set by an earlier source is never overwritten.
func (s *extractionService) resolveVehicle(ctx context.Context, text string) models.VehicleRecord {
	vehicle := fields.ExtractVehicle(text)
	vehicle.VIN = vin.Find(text)

	if vehicle.VIN == "" || vehicle.Complete() {
		return vehicle
	}

	windowed := fields.ExtractVehicleNearVIN(text, vehicle.VIN)
	vehicle = models.MergeVehicles(vehicle, windowed)

	if vehicle.Complete() || s.decoder == nil {
		return vehicle
	}

	decoded, err := s.decoder.Decode(ctx, vehicle.VIN)
	if err != nil {
		s.logger.Warn("VIN decode failed", "error", err, "vin", vehicle.VIN)
		return vehicle
	}

	return models.MergeVehicles(vehicle, decoded)
}

func (s *extractionService) GetExtraction(ctx context.Context, id string) (*models.ExtractionResult, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get extraction", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve extraction")
	}
	if result == nil {
		return nil, utils.NewNotFoundError("Extraction not found")
	}

	return result, nil
}

// GetOriginalDocument returns the archived bytes and content type of one of
// an extraction's uploaded files.
func (s *extractionService) GetOriginalDocument(ctx context.Context, id, filename string) ([]byte, string, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get extraction", "error", err, "id", id)
		return nil, "", utils.NewInternalError("Failed to retrieve extraction")
	}
	if result == nil {
		return nil, "", utils.NewNotFoundError("Extraction not found")
	}

	var file *models.FileText
	for i := range result.Files {
		if result.Files[i].Name == filename {
			file = &result.Files[i]
			break
		}
	}
	if file == nil {
		return nil, "", utils.NewNotFoundError("No such document in extraction")
	}

	if s.storage == nil {
		return nil, "", utils.NewNotFoundError("Original document is not archived")
	}

	data, err := s.storage.FetchOriginal(ctx, id, filename)
	if err != nil {
		s.logger.Error("Failed to fetch archived document", "error", err, "id", id, "filename", filename)
		return nil, "", utils.NewInternalError("Failed to retrieve original document")
	}

	return data, file.Type, nil
}

// DeleteExtraction removes the stored result and its archived originals.
func (s *extractionService) DeleteExtraction(ctx context.Context, id string) error {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get extraction", "error", err, "id", id)
		return utils.NewInternalError("Failed to retrieve extraction")
	}
	if result == nil {
		return utils.NewNotFoundError("Extraction not found")
	}

	if s.storage != nil && len(result.Files) > 0 {
		names := make([]string, 0, len(result.Files))
		for _, f := range result.Files {
			names = append(names, f.Name)
		}
		// Orphaned objects are preferable to a row that outlives its files
		if err := s.storage.RemoveOriginals(ctx, id, names); err != nil {
			s.logger.Warn("Failed to remove archived documents", "error", err, "id", id)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete extraction", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete extraction")
	}

	s.logger.Info("Extraction deleted", "id", id, "files", len(result.Files))
	return nil
}

// archiveOriginal stores the raw upload; failure is logged and ignored.
func (s *extractionService) archiveOriginal(ctx context.Context, id string, doc models.RawDocument) {
	if s.storage == nil {
		return
	}
	if err := s.storage.ArchiveDocument(ctx, id, doc.Name, doc.Data, doc.Type); err != nil {
		s.logger.Warn("Failed to archive original document", "error", err, "id", id, "filename", doc.Name)
	}
}
