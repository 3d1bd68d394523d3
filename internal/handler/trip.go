package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/service"
	"github.com/pkordes/trippacks/internal/validation"
)

// CreatePackRequest is the body of POST /packs.
type CreatePackRequest struct {
	Stops        []string `json:"stops"`
	ReceivedDate string   `json:"received_date,omitempty"`
	State        int      `json:"state,omitempty"`
}

// CreatePack handles POST /packs: a new trip numbered after the highest
// existing one, with one stop per location.
func (s *Server) CreatePack(w http.ResponseWriter, r *http.Request) {
	if s.trips == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "trips unavailable")
		return
	}

	var req CreatePackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body must be {\"stops\": [...]}")
		return
	}

	var msgs validation.Collector
	ctx := validation.NewContext(r.Context(), &msgs)

	pack, err := s.trips.CreateTrip(ctx, service.TripDraft{
		Stops:        req.Stops,
		ReceivedDate: req.ReceivedDate,
		State:        domain.TripState(req.State),
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err), msgs.Messages...)
			return
		}
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", domain.TripTarget(pack.Trip.ID).Path())
	writeJSON(w, http.StatusCreated, pack)
}
