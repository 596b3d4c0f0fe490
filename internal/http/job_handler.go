package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/cleanops/internal/application"
	"github.com/example/cleanops/internal/scheduling"
)

type jobService interface {
	CreateJob(ctx context.Context, params application.CreateJobParams) (application.Job, error)
	UpdateJob(ctx context.Context, params application.UpdateJobParams) (application.Job, error)
	TransitionJob(ctx context.Context, principal application.Principal, jobID string, target scheduling.Status) (application.Job, error)
	AssignStaff(ctx context.Context, principal application.Principal, jobID string, staffID *string) (application.Job, error)
	GetJob(ctx context.Context, jobID string) (application.Job, error)
	ListJobs(ctx context.Context, filter application.JobListFilter) ([]application.Job, error)
}

type JobHandler struct {
	service   jobService
	responder responder
}

func NewJobHandler(service jobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.CreateJob(r.Context(), application.CreateJobParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID, ok := JobIDFromContext(r.Context())
	if !ok || strings.TrimSpace(jobID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidJobID)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.UpdateJob(r.Context(), application.UpdateJobParams{
		Principal: principal,
		JobID:     jobID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID, ok := JobIDFromContext(r.Context())
	if !ok || strings.TrimSpace(jobID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidJobID)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.TransitionJob(r.Context(), principal, jobID, scheduling.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID, ok := JobIDFromContext(r.Context())
	if !ok || strings.TrimSpace(jobID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidJobID)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.AssignStaff(r.Context(), principal, jobID, req.StaffID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID, ok := JobIDFromContext(r.Context())
	if !ok || strings.TrimSpace(jobID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidJobID)
		return
	}

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobs, err := h.service.ListJobs(r.Context(), buildJobFilter(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listJobsResponse{Jobs: toJobDTOs(jobs)})
}

func buildJobFilter(values url.Values) application.JobListFilter {
	filter := application.JobListFilter{
		ScheduledDate:   strings.TrimSpace(values.Get("date")),
		AssignedStaffID: strings.TrimSpace(values.Get("staff_id")),
	}

	if raw := strings.TrimSpace(values.Get("statuses")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if status, err := scheduling.ParseStatus(strings.TrimSpace(part)); err == nil {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}

	return filter
}

type jobRequest struct {
	ClientName      string  `json:"client_name"`
	Address         string  `json:"address"`
	AssignedStaffID *string `json:"assigned_staff_id"`
	ScheduledDate   string  `json:"scheduled_date"`
	ScheduledTime   string  `json:"scheduled_time"`
	Notes           string  `json:"notes"`
}

func (r jobRequest) toInput() application.JobInput {
	return application.JobInput{
		ClientName:      strings.TrimSpace(r.ClientName),
		Address:         r.Address,
		AssignedStaffID: r.AssignedStaffID,
		ScheduledDate:   strings.TrimSpace(r.ScheduledDate),
		ScheduledTime:   strings.TrimSpace(r.ScheduledTime),
		Notes:           r.Notes,
	}
}

type transitionRequest struct {
	Status string `json:"status"`
}

type assignRequest struct {
	StaffID *string `json:"staff_id"`
}

type jobResponse struct {
	Job jobDTO `json:"job"`
}

type listJobsResponse struct {
	Jobs []jobDTO `json:"jobs"`
}

type jobDTO struct {
	ID              string  `json:"id"`
	ClientName      string  `json:"client_name"`
	Address         *string `json:"address,omitempty"`
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
	ScheduledDate   string  `json:"scheduled_date"`
	ScheduledTime   string  `json:"scheduled_time"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toJobDTO(job application.Job) jobDTO {
	return jobDTO{
		ID:              job.ID,
		ClientName:      job.ClientName,
		Address:         job.Address,
		AssignedStaffID: job.AssignedStaffID,
		ScheduledDate:   job.ScheduledDate,
		ScheduledTime:   job.ScheduledTime,
		Status:          string(job.Status),
		Notes:           job.Notes,
		CreatedAt:       job.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       job.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toJobDTOs(jobs []application.Job) []jobDTO {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]jobDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobDTO(job))
	}
	return out
}
