package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"carbooking/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

// UpsertUser registers a user or refreshes their contact details. The ID
// comes from the messaging transport and is stable per user.
func (r *UserRepository) UpsertUser(u *db.User) error {
	query := `
		INSERT INTO users (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET name = $2, phone = $3, email = $4
		RETURNING created_at`
	err := r.DB.QueryRow(query, u.ID, u.Name, u.Phone, u.Email).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting user %d: %w", u.ID, err)
	}
	return nil
}

// GetUser returns the user or (nil, nil) when unregistered.
func (r *UserRepository) GetUser(id int64) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(`SELECT id, name, phone, email, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}
