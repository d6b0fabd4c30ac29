package database

import (
	"fmt"

	"pet-nutrition-service/models"

	"github.com/apex/log"
)

// InitSchema creates all tables if they do not exist
func (d *Database) InitSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS breeds (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			pet_type ENUM('dog', 'cat') NOT NULL,
			UNIQUE KEY uq_breed (name, pet_type)
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			pet_type ENUM('dog', 'cat') NOT NULL,
			breed_id INT,
			gender VARCHAR(32) NOT NULL,
			age DOUBLE NOT NULL,
			weight DOUBLE NOT NULL,
			allergies TEXT,
			health_issues TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_pets_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pet_food_analyses (
			id VARCHAR(36) PRIMARY KEY,
			pet_id VARCHAR(36) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			image_data LONGTEXT NOT NULL,
			analysis_text TEXT NOT NULL,
			score INT NOT NULL,
			INDEX idx_analyses_pet_created (pet_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS user_scans (
			user_id VARCHAR(255) PRIMARY KEY,
			free_scans_used INT NOT NULL DEFAULT 0
		)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.Info("Database schema created/verified successfully")
	return nil
}

// seedBreeds is the reference breed list inserted on startup
var seedBreeds = []models.Breed{
	{Name: "Labrador Retriever", PetType: models.PetTypeDog},
	{Name: "German Shepherd", PetType: models.PetTypeDog},
	{Name: "Golden Retriever", PetType: models.PetTypeDog},
	{Name: "Bulldog", PetType: models.PetTypeDog},
	{Name: "Poodle", PetType: models.PetTypeDog},
	{Name: "Beagle", PetType: models.PetTypeDog},
	{Name: "Dachshund", PetType: models.PetTypeDog},
	{Name: "Mixed Breed", PetType: models.PetTypeDog},
	{Name: "Domestic Shorthair", PetType: models.PetTypeCat},
	{Name: "Domestic Longhair", PetType: models.PetTypeCat},
	{Name: "Siamese", PetType: models.PetTypeCat},
	{Name: "Maine Coon", PetType: models.PetTypeCat},
	{Name: "Persian", PetType: models.PetTypeCat},
	{Name: "Ragdoll", PetType: models.PetTypeCat},
	{Name: "Bengal", PetType: models.PetTypeCat},
	{Name: "Mixed Breed", PetType: models.PetTypeCat},
}

// SeedBreeds inserts the known breed list, skipping entries that already exist
func (d *Database) SeedBreeds() error {
	for _, breed := range seedBreeds {
		_, err := d.db.Exec(
			"INSERT IGNORE INTO breeds (name, pet_type) VALUES (?, ?)",
			breed.Name, breed.PetType,
		)
		if err != nil {
			return fmt.Errorf("failed to seed breed %q: %w", breed.Name, err)
		}
	}
	return nil
}

// ListBreeds returns breeds, optionally filtered by pet type
func (d *Database) ListBreeds(petType models.PetType) ([]models.Breed, error) {
	query := "SELECT id, name, pet_type FROM breeds"
	args := []any{}
	if petType != "" {
		query += " WHERE pet_type = ?"
		args = append(args, petType)
	}
	query += " ORDER BY name ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query breeds: %w", err)
	}
	defer rows.Close()

	var breeds []models.Breed
	for rows.Next() {
		var b models.Breed
		if err := rows.Scan(&b.ID, &b.Name, &b.PetType); err != nil {
			return nil, fmt.Errorf("failed to scan breed: %w", err)
		}
		breeds = append(breeds, b)
	}
	return breeds, rows.Err()
}
