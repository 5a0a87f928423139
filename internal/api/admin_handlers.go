package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carbooking/internal/db"
	"carbooking/internal/service"
)

type AdminHandler struct {
	Inventory *service.InventoryService
}

func NewAdminHandler(inventory *service.InventoryService) *AdminHandler {
	return &AdminHandler{Inventory: inventory}
}

func (h *AdminHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req AddVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Brand == "" || req.Model == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	vehicle := &db.Vehicle{
		Brand:       req.Brand,
		Model:       req.Model,
		Category:    req.Category,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		IsAvailable: true,
		ImageURL:    req.ImageURL,
	}
	if err := h.Inventory.AddVehicle(vehicle); err != nil {
		http.Error(w, "Could not add vehicle", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVehicleResponse(*vehicle))
}

func (h *AdminHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	deleted, err := h.Inventory.RemoveVehicle(id)
	if err != nil {
		http.Error(w, "Could not delete vehicle", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Vehicle deleted"})
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	reservations, err := h.Inventory.ListReservations(status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	response := make([]ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		response = append(response, toReservationResponse(res))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *AdminHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	cancelled, err := h.Inventory.CancelReservation(id)
	if err != nil {
		http.Error(w, "Could not cancel reservation", http.StatusInternalServerError)
		return
	}
	if !cancelled {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Reservation cancelled"})
}
