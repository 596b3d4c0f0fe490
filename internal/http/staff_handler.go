package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/cleanops/internal/application"
)

type staffService interface {
	CreateStaff(ctx context.Context, params application.CreateStaffParams) (application.StaffMember, error)
	UpdateStaff(ctx context.Context, params application.UpdateStaffParams) (application.StaffMember, error)
	DeactivateStaff(ctx context.Context, principal application.Principal, staffID string) (application.StaffMember, error)
	GetStaff(ctx context.Context, staffID string) (application.StaffMember, error)
	ListStaff(ctx context.Context) ([]application.StaffMember, error)
}

type StaffHandler struct {
	service   staffService
	responder responder
}

func NewStaffHandler(service staffService, logger *slog.Logger) *StaffHandler {
	return &StaffHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	member, err := h.service.CreateStaff(r.Context(), application.CreateStaffParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, staffResponse{Staff: toStaffDTO(member)})
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	member, err := h.service.UpdateStaff(r.Context(), application.UpdateStaffParams{
		Principal: principal,
		StaffID:   staffID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Staff: toStaffDTO(member)})
}

func (h *StaffHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if _, err := h.service.DeactivateStaff(r.Context(), principal, staffID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	member, err := h.service.GetStaff(r.Context(), staffID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Staff: toStaffDTO(member)})
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	members, err := h.service.ListStaff(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStaffResponse{Staff: toStaffDTOs(members)})
}

type staffRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
	Password    string `json:"password,omitempty"`
}

func (r staffRequest) toInput() application.StaffInput {
	return application.StaffInput{
		Email:       strings.TrimSpace(r.Email),
		DisplayName: strings.TrimSpace(r.DisplayName),
		Role:        strings.TrimSpace(r.Role),
		Active:      r.Active,
		Password:    r.Password,
	}
}

type staffResponse struct {
	Staff staffDTO `json:"staff"`
}

type listStaffResponse struct {
	Staff []staffDTO `json:"staff"`
}

type staffDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toStaffDTO(member application.StaffMember) staffDTO {
	return staffDTO{
		ID:          member.ID,
		Email:       member.Email,
		DisplayName: member.DisplayName,
		Role:        member.Role,
		Active:      member.Active,
		CreatedAt:   member.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   member.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toStaffDTOs(members []application.StaffMember) []staffDTO {
	if len(members) == 0 {
		return nil
	}
	out := make([]staffDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toStaffDTO(member))
	}
	return out
}
