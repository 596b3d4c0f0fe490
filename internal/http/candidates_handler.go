package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/cleanops/internal/application"
	"github.com/example/cleanops/internal/scheduling"
)

type assignmentService interface {
	ResolveCandidates(ctx context.Context, query application.CandidateQuery) ([]scheduling.Candidate, error)
}

type CandidatesHandler struct {
	service   assignmentService
	responder responder
}

func NewCandidatesHandler(service assignmentService, logger *slog.Logger) *CandidatesHandler {
	return &CandidatesHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

// List ranks the active roster against the requested slot. Requests missing
// the date or time are treated as "no query yet" and answered with an empty
// list rather than an error.
func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := application.CandidateQuery{
		Date:      strings.TrimSpace(r.URL.Query().Get("date")),
		TimeOfDay: strings.TrimSpace(r.URL.Query().Get("time")),
	}

	candidates, err := h.service.ResolveCandidates(r.Context(), query)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, candidatesResponse{
		Date:       query.Date,
		TimeOfDay:  query.TimeOfDay,
		Candidates: toCandidateDTOs(candidates),
	})
}

type candidatesResponse struct {
	Date       string         `json:"date,omitempty"`
	TimeOfDay  string         `json:"time,omitempty"`
	Candidates []candidateDTO `json:"candidates"`
}

type candidateDTO struct {
	StaffID         string `json:"staff_id"`
	DisplayName     string `json:"display_name"`
	AvailableOnDay  bool   `json:"available_on_day"`
	SameHourBooking bool   `json:"same_hour_booking"`
	WithinHours     bool   `json:"within_hours"`
	Conflict        bool   `json:"conflict"`
}

func toCandidateDTOs(candidates []scheduling.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, candidateDTO{
			StaffID:         c.StaffID,
			DisplayName:     c.DisplayName,
			AvailableOnDay:  c.AvailableOnDay,
			SameHourBooking: c.SameHourBooking,
			WithinHours:     c.WithinHours,
			Conflict:        c.Conflict,
		})
	}
	return out
}
