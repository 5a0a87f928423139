package api

import (
	"encoding/json"
	"net/http"

	apierrors "carbooking/internal/errors"
	"carbooking/internal/session"
)

// BookingHandler exposes the conversational booking surface: each request
// is one user event dispatched to the session orchestrator, each response
// the engine's reply payload.
type BookingHandler struct {
	Orchestrator *session.Orchestrator
}

func NewBookingHandler(orchestrator *session.Orchestrator) *BookingHandler {
	return &BookingHandler{Orchestrator: orchestrator}
}

func (h *BookingHandler) Browse(w http.ResponseWriter, r *http.Request) {
	var req BookingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	writeReply(w, h.Orchestrator.Browse(req.UserID))
}

func (h *BookingHandler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	var req SelectVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	reply, err := h.Orchestrator.Select(req.UserID, req.VehicleID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeReply(w, reply)
}

func (h *BookingHandler) SubmitDates(w http.ResponseWriter, r *http.Request) {
	var req SubmitDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	reply, err := h.Orchestrator.SubmitDates(req.UserID, req.Dates)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeReply(w, reply)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req BookingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	reply, err := h.Orchestrator.Confirm(req.UserID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeReply(w, reply)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req BookingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	writeReply(w, h.Orchestrator.Cancel(req.UserID))
}

func writeReply(w http.ResponseWriter, reply interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

func writeBookingError(w http.ResponseWriter, err error) {
	httpErr := apierrors.FromBookingError(err)
	http.Error(w, httpErr.Message, httpErr.Code)
}
