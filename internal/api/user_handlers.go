package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"carbooking/internal/db"
	"carbooking/internal/entities"
	"carbooking/internal/repository"
	"carbooking/internal/service"
)

type UserHandler struct {
	Inventory *service.InventoryService
	Users     *repository.UserRepository
}

func NewUserHandler(inventory *service.InventoryService, users *repository.UserRepository) *UserHandler {
	return &UserHandler{Inventory: inventory, Users: users}
}

func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.Name == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	user := &db.User{ID: req.UserID, Name: req.Name, Phone: req.Phone, Email: req.Email}
	if err := h.Users.UpsertUser(user); err != nil {
		http.Error(w, "Could not register user", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Registration successful"})
}

// ListVehicles serves the catalog with optional category and inclusive
// price-range filters.
func (h *UserHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	filter := entities.VehicleFilter{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			http.Error(w, "Invalid min_price", http.StatusBadRequest)
			return
		}
		filter.MinPrice = &min
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			http.Error(w, "Invalid max_price", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = &max
	}

	vehicles, err := h.Inventory.ListVehicles(filter)
	if err != nil {
		http.Error(w, "Could not list vehicles", http.StatusInternalServerError)
		return
	}
	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *UserHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	vehicle, err := h.Inventory.Vehicle(id)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if vehicle == nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVehicleResponse(*vehicle))
}
