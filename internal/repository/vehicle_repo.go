package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"carbooking/internal/db"
	"carbooking/internal/entities"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

// ListVehicles returns catalog vehicles matching the filter, cheapest first.
func (r *VehicleRepository) ListVehicles(filter entities.VehicleFilter) ([]db.Vehicle, error) {
	query := `
		SELECT id, brand, model, category, description, price_per_day, is_available, image_url
		FROM vehicles
		WHERE is_available = TRUE`
	var args []interface{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND price_per_day >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND price_per_day <= $%d", len(args))
	}
	query += " ORDER BY price_per_day, brand, model"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.Category, &v.Description, &v.PricePerDay, &v.IsAvailable, &v.ImageURL); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetVehicle returns the vehicle or (nil, nil) when it does not exist.
func (r *VehicleRepository) GetVehicle(id int64) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRow(`
		SELECT id, brand, model, category, description, price_per_day, is_available, image_url
		FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.Brand, &v.Model, &v.Category, &v.Description, &v.PricePerDay, &v.IsAvailable, &v.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *VehicleRepository) CreateVehicle(v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (brand, model, category, description, price_per_day, is_available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.DB.QueryRow(query, v.Brand, v.Model, v.Category, v.Description, v.PricePerDay, v.IsAvailable, v.ImageURL).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("error creating vehicle: %w", err)
	}
	return nil
}

// DeleteVehicle removes a vehicle and reports whether a row existed.
func (r *VehicleRepository) DeleteVehicle(id int64) (bool, error) {
	result, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting vehicle %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
