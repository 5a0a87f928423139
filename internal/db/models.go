package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses a reservation can carry. Only completed reservations
// count against a vehicle's availability.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

type Vehicle struct {
	ID          int64
	Brand       string
	Model       string
	Category    string
	Description string
	PricePerDay decimal.Decimal
	IsAvailable bool
	ImageURL    string
}

type Reservation struct {
	ID            int64
	Code          string
	UserID        int64
	VehicleID     int64
	StartDate     time.Time
	EndDate       time.Time
	TotalPrice    decimal.Decimal
	PaymentStatus string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type User struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}
