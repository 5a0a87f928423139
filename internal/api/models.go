package api

import (
	"time"

	"github.com/shopspring/decimal"

	"carbooking/internal/db"
)

// Users
type RegisterUserRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// Booking events
type SelectVehicleRequest struct {
	UserID    int64 `json:"user_id"`
	VehicleID int64 `json:"vehicle_id"`
}
type SubmitDatesRequest struct {
	UserID int64  `json:"user_id"`
	Dates  string `json:"dates"`
}
type BookingEventRequest struct {
	UserID int64 `json:"user_id"`
}

// Catalog / admin
type AddVehicleRequest struct {
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	ImageURL    string          `json:"image_url"`
}

type VehicleResponse struct {
	ID          int64           `json:"id"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    string          `json:"image_url"`
}

type ReservationResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	UserID        int64           `json:"user_id"`
	VehicleID     int64           `json:"vehicle_id"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

const dateFormat = "02.01.2006"

func toVehicleResponse(v db.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		Brand:       v.Brand,
		Model:       v.Model,
		Category:    v.Category,
		Description: v.Description,
		PricePerDay: v.PricePerDay,
		IsAvailable: v.IsAvailable,
		ImageURL:    v.ImageURL,
	}
}

func toReservationResponse(r db.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		Code:          r.Code,
		UserID:        r.UserID,
		VehicleID:     r.VehicleID,
		StartDate:     r.StartDate.Format(dateFormat),
		EndDate:       r.EndDate.Format(dateFormat),
		TotalPrice:    r.TotalPrice,
		PaymentStatus: r.PaymentStatus,
		CreatedAt:     r.CreatedAt,
	}
}
