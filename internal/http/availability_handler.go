package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/cleanops/internal/application"
	"github.com/example/cleanops/internal/scheduling"
)

type availabilityService interface {
	Week(ctx context.Context, staffID string) []scheduling.Window
	SaveWeek(ctx context.Context, principal application.Principal, staffID string, week []scheduling.Window) ([]scheduling.Window, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

// GetWeek always responds with a complete seven-day schedule; days never saved
// come back as defaults.
func (h *AvailabilityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	week := h.service.Week(r.Context(), staffID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, weekResponse{Windows: toWindowDTOs(week)})
}

func (h *AvailabilityHandler) PutWeek(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	var req weekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	saved, err := h.service.SaveWeek(r.Context(), principal, staffID, req.toWindows(staffID))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, weekResponse{Windows: toWindowDTOs(saved)})
}

type weekRequest struct {
	Windows []windowDTO `json:"windows"`
}

func (r weekRequest) toWindows(staffID string) []scheduling.Window {
	out := make([]scheduling.Window, 0, len(r.Windows))
	for _, dto := range r.Windows {
		out = append(out, scheduling.Window{
			ID:        strings.TrimSpace(dto.ID),
			StaffID:   staffID,
			Day:       dto.Day,
			Start:     strings.TrimSpace(dto.Start),
			End:       strings.TrimSpace(dto.End),
			Available: dto.Available,
		})
	}
	return out
}

type weekResponse struct {
	Windows []windowDTO `json:"windows"`
}

type windowDTO struct {
	ID        string `json:"id,omitempty"`
	Day       int    `json:"day_of_week"`
	Start     string `json:"start_time"`
	End       string `json:"end_time"`
	Available bool   `json:"is_available"`
	Persisted bool   `json:"persisted"`
}

func toWindowDTOs(week []scheduling.Window) []windowDTO {
	if len(week) == 0 {
		return []windowDTO{}
	}
	out := make([]windowDTO, 0, len(week))
	for _, window := range week {
		out = append(out, windowDTO{
			ID:        window.ID,
			Day:       window.Day,
			Start:     window.Start,
			End:       window.End,
			Available: window.Available,
			Persisted: window.Origin == scheduling.OriginPersisted,
		})
	}
	return out
}
