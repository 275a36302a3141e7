package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/carriernorth/release-form-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, result *models.ExtractionResult) error
	GetByID(ctx context.Context, id string) (*models.ExtractionResult, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, result *models.ExtractionResult) error {
	row, err := toRow(result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extractions (id, combined_text, vin, year, make, model, pickup_json, labels_json, files_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		row.ID,
		row.CombinedText,
		row.VIN,
		row.Year,
		row.Make,
		row.Model,
		row.PickupJSON,
		row.LabelsJSON,
		row.FilesJSON,
		row.CreatedAt,
	)

	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.ExtractionResult, error) {
	var row models.Extraction

	query := `
		SELECT id, combined_text, vin, year, make, model, pickup_json, labels_json, files_json, created_at
		FROM extractions
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return fromRow(&row)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM extractions WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func toRow(result *models.ExtractionResult) (*models.Extraction, error) {
	row := &models.Extraction{
		ID:           result.ID,
		CombinedText: result.CombinedText,
		VIN:          result.Vehicle.VIN,
		Year:         result.Vehicle.Year,
		Make:         result.Vehicle.Make,
		Model:        result.Vehicle.Model,
		CreatedAt:    result.CreatedAt,
	}

	if result.PickupLocation != nil {
		b, err := json.Marshal(result.PickupLocation)
		if err != nil {
			return nil, err
		}
		row.PickupJSON = string(b)
	}

	b, err := json.Marshal(result.Labels)
	if err != nil {
		return nil, err
	}
	row.LabelsJSON = string(b)

	b, err = json.Marshal(result.Files)
	if err != nil {
		return nil, err
	}
	row.FilesJSON = string(b)

	return row, nil
}

func fromRow(row *models.Extraction) (*models.ExtractionResult, error) {
	result := &models.ExtractionResult{
		ID:           row.ID,
		CombinedText: row.CombinedText,
		Vehicle: models.VehicleRecord{
			VIN:   row.VIN,
			Year:  row.Year,
			Make:  row.Make,
			Model: row.Model,
		},
		CreatedAt: row.CreatedAt,
	}

	if row.PickupJSON != "" {
		var pickup models.AddressBreakdown
		if err := json.Unmarshal([]byte(row.PickupJSON), &pickup); err != nil {
			return nil, err
		}
		result.PickupLocation = &pickup
	}

	if row.LabelsJSON != "" {
		if err := json.Unmarshal([]byte(row.LabelsJSON), &result.Labels); err != nil {
			return nil, err
		}
	}

	if row.FilesJSON != "" {
		if err := json.Unmarshal([]byte(row.FilesJSON), &result.Files); err != nil {
			return nil, err
		}
	}

	return result, nil
}
