package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pet-nutrition-service/models"

	"github.com/google/uuid"
)

// CreatePet inserts a new pet profile for the given user
func (d *Database) CreatePet(ctx context.Context, userID string, req models.CreatePetRequest) (*models.Pet, error) {
	pet := &models.Pet{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		PetType:      req.PetType,
		BreedID:      req.BreedID,
		Gender:       req.Gender,
		Age:          req.Age,
		Weight:       req.Weight,
		Allergies:    req.Allergies,
		HealthIssues: req.HealthIssues,
		CreatedAt:    time.Now().UTC(),
	}

	allergies, err := json.Marshal(nonNil(pet.Allergies))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allergies: %w", err)
	}
	healthIssues, err := json.Marshal(nonNil(pet.HealthIssues))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal health issues: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO pets (id, user_id, name, pet_type, breed_id, gender, age, weight, allergies, health_issues)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pet.ID, pet.UserID, pet.Name, pet.PetType, pet.BreedID, pet.Gender,
		pet.Age, pet.Weight, string(allergies), string(healthIssues),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pet: %w", err)
	}

	return pet, nil
}

// GetPet fetches one pet, scoped to its owning user
func (d *Database) GetPet(ctx context.Context, userID, petID string) (*models.Pet, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, pet_type, breed_id, gender, age, weight, allergies, health_issues, created_at
		FROM pets
		WHERE id = ? AND user_id = ?`,
		petID, userID,
	)

	pet, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to fetch pet %s: %w", petID, err)
	}
	return pet, nil
}

// ListPets returns all pets owned by the user, oldest first
func (d *Database) ListPets(ctx context.Context, userID string) ([]models.Pet, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, name, pet_type, breed_id, gender, age, weight, allergies, health_issues, created_at
		FROM pets
		WHERE user_id = ?
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, *pet)
	}
	return pets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*models.Pet, error) {
	var pet models.Pet
	var breedID sql.NullInt64
	var allergies, healthIssues sql.NullString

	err := row.Scan(
		&pet.ID,
		&pet.UserID,
		&pet.Name,
		&pet.PetType,
		&breedID,
		&pet.Gender,
		&pet.Age,
		&pet.Weight,
		&allergies,
		&healthIssues,
		&pet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if breedID.Valid {
		v := int(breedID.Int64)
		pet.BreedID = &v
	}
	pet.Allergies = decodeStringList(allergies)
	pet.HealthIssues = decodeStringList(healthIssues)

	return &pet, nil
}

func decodeStringList(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(v.String), &list); err != nil {
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
