package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pet-nutrition-service/models"

	"github.com/google/uuid"
)

// SaveAnalysis appends a completed analysis to the history log. Records are
// immutable once written; created_at is assigned by the server.
func (d *Database) SaveAnalysis(ctx context.Context, petID, imageData string, result models.AnalysisResult) (*models.Analysis, error) {
	analysisText, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis result: %w", err)
	}

	record := &models.Analysis{
		ID:        uuid.NewString(),
		PetID:     petID,
		CreatedAt: time.Now().UTC(),
		ImageData: imageData,
		Result:    result,
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO pet_food_analyses (id, pet_id, image_data, analysis_text, score)
		VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.PetID, record.ImageData, string(analysisText), result.Score,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return record, nil
}

// ListAnalyses returns the analysis history for a pet, newest first
func (d *Database) ListAnalyses(ctx context.Context, petID string) ([]models.Analysis, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, pet_id, created_at, image_data, analysis_text
		FROM pet_food_analyses
		WHERE pet_id = ?
		ORDER BY created_at DESC`,
		petID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var a models.Analysis
		var analysisText string
		if err := rows.Scan(&a.ID, &a.PetID, &a.CreatedAt, &a.ImageData, &analysisText); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(analysisText), &a.Result); err != nil {
			return nil, fmt.Errorf("failed to deserialize analysis %s: %w", a.ID, err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
