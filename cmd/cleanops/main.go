package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/cleanops/internal/application"
	"github.com/example/cleanops/internal/config"
	httptransport "github.com/example/cleanops/internal/http"
	"github.com/example/cleanops/internal/persistence"
	"github.com/example/cleanops/internal/persistence/sqlite"
	"github.com/example/cleanops/internal/scheduling"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	staffRepo := sqlite.NewStaffRepository(pool)
	availabilityRepo := sqlite.NewAvailabilityRepository(pool, idGenerator)
	jobRepo := sqlite.NewJobRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)

	staffDirectory := newStaffDirectoryAdapter(staffRepo)
	availabilityStore := newAvailabilityStoreAdapter(availabilityRepo)
	dayWindows := newDayWindowSourceAdapter(availabilityRepo)
	commitments := newCommitmentSourceAdapter(jobRepo)
	jobStore := newJobStoreAdapter(jobRepo)
	credentialStore := newCredentialStoreAdapter(staffRepo)
	sessionStore := newSessionStoreAdapter(sessionRepo)

	staffService := application.NewStaffServiceWithLogger(staffDirectory, idGenerator, now, logger)
	availabilityService := application.NewAvailabilityServiceWithLogger(availabilityStore, logger)
	jobService := application.NewJobServiceWithLogger(jobStore, idGenerator, now, logger)
	assignmentService := application.NewAssignmentServiceWithLogger(staffService, dayWindows, commitments, cfg.FetchTimeout, logger)
	authService := application.NewAuthServiceWithLogger(credentialStore, sessionStore, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Staff:        httptransport.NewStaffHandler(staffService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Jobs:         httptransport.NewJobHandler(jobService, logger),
		Candidates:   httptransport.NewCandidatesHandler(assignmentService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("cleanops API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type staffDirectoryAdapter struct {
	repo persistence.StaffRepository
}

func newStaffDirectoryAdapter(repo persistence.StaffRepository) *staffDirectoryAdapter {
	return &staffDirectoryAdapter{repo: repo}
}

func (a *staffDirectoryAdapter) CreateStaff(ctx context.Context, member application.StaffMember, passwordHash string) (application.StaffMember, error) {
	if err := a.repo.CreateStaff(ctx, toPersistenceStaff(member, passwordHash)); err != nil {
		return application.StaffMember{}, err
	}
	stored, err := a.repo.GetStaff(ctx, member.ID)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffDirectoryAdapter) UpdateStaff(ctx context.Context, member application.StaffMember, passwordHash string) (application.StaffMember, error) {
	if passwordHash == "" {
		current, err := a.repo.GetStaff(ctx, member.ID)
		if err != nil {
			return application.StaffMember{}, err
		}
		passwordHash = current.PasswordHash
	}
	if err := a.repo.UpdateStaff(ctx, toPersistenceStaff(member, passwordHash)); err != nil {
		return application.StaffMember{}, err
	}
	stored, err := a.repo.GetStaff(ctx, member.ID)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffDirectoryAdapter) GetStaff(ctx context.Context, id string) (application.StaffMember, error) {
	stored, err := a.repo.GetStaff(ctx, id)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffDirectoryAdapter) ListStaff(ctx context.Context) ([]application.StaffMember, error) {
	models, err := a.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationStaffList(models), nil
}

func (a *staffDirectoryAdapter) ListActiveStaff(ctx context.Context) ([]application.StaffMember, error) {
	models, err := a.repo.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationStaffList(models), nil
}

type availabilityStoreAdapter struct {
	repo persistence.AvailabilityRepository
}

func newAvailabilityStoreAdapter(repo persistence.AvailabilityRepository) *availabilityStoreAdapter {
	return &availabilityStoreAdapter{repo: repo}
}

func (a *availabilityStoreAdapter) ListWindows(ctx context.Context, staffID string) ([]scheduling.Window, error) {
	models, err := a.repo.ListWindows(ctx, staffID)
	if err != nil {
		return nil, err
	}
	windows := make([]scheduling.Window, 0, len(models))
	for _, model := range models {
		windows = append(windows, toSchedulingWindow(model))
	}
	return windows, nil
}

func (a *availabilityStoreAdapter) SaveWeek(ctx context.Context, staffID string, week []scheduling.Window) error {
	models := make([]persistence.AvailabilityWindow, 0, len(week))
	for _, window := range week {
		models = append(models, toPersistenceWindow(staffID, window))
	}
	return a.repo.SaveWeek(ctx, staffID, models)
}

type dayWindowSourceAdapter struct {
	repo persistence.AvailabilityRepository
}

func newDayWindowSourceAdapter(repo persistence.AvailabilityRepository) *dayWindowSourceAdapter {
	return &dayWindowSourceAdapter{repo: repo}
}

func (a *dayWindowSourceAdapter) WindowsForDay(ctx context.Context, staffIDs []string, dayOfWeek int) (map[string]scheduling.Window, error) {
	models, err := a.repo.WindowsForDay(ctx, staffIDs, dayOfWeek)
	if err != nil {
		return nil, err
	}
	windows := make(map[string]scheduling.Window, len(models))
	for staffID, model := range models {
		windows[staffID] = toSchedulingWindow(model)
	}
	return windows, nil
}

type commitmentSourceAdapter struct {
	repo persistence.JobRepository
}

func newCommitmentSourceAdapter(repo persistence.JobRepository) *commitmentSourceAdapter {
	return &commitmentSourceAdapter{repo: repo}
}

func (a *commitmentSourceAdapter) ActiveCommitments(ctx context.Context, date string) ([]application.StaffCommitment, error) {
	slots, err := a.repo.ActiveSlotsOnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	commitments := make([]application.StaffCommitment, 0, len(slots))
	for _, slot := range slots {
		commitments = append(commitments, application.StaffCommitment{
			StaffID:   slot.AssignedStaffID,
			TimeOfDay: slot.ScheduledTime,
		})
	}
	return commitments, nil
}

type jobStoreAdapter struct {
	repo persistence.JobRepository
}

func newJobStoreAdapter(repo persistence.JobRepository) *jobStoreAdapter {
	return &jobStoreAdapter{repo: repo}
}

func (a *jobStoreAdapter) CreateJob(ctx context.Context, job application.Job) (application.Job, error) {
	if err := a.repo.CreateJob(ctx, toPersistenceJob(job)); err != nil {
		return application.Job{}, err
	}
	stored, err := a.repo.GetJob(ctx, job.ID)
	if err != nil {
		return application.Job{}, err
	}
	return toApplicationJob(stored), nil
}

func (a *jobStoreAdapter) UpdateJob(ctx context.Context, job application.Job) (application.Job, error) {
	if err := a.repo.UpdateJob(ctx, toPersistenceJob(job)); err != nil {
		return application.Job{}, err
	}
	stored, err := a.repo.GetJob(ctx, job.ID)
	if err != nil {
		return application.Job{}, err
	}
	return toApplicationJob(stored), nil
}

func (a *jobStoreAdapter) GetJob(ctx context.Context, id string) (application.Job, error) {
	stored, err := a.repo.GetJob(ctx, id)
	if err != nil {
		return application.Job{}, err
	}
	return toApplicationJob(stored), nil
}

func (a *jobStoreAdapter) ListJobs(ctx context.Context, filter application.JobListFilter) ([]application.Job, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}
	models, err := a.repo.ListJobs(ctx, persistence.JobFilter{
		ScheduledDate:   filter.ScheduledDate,
		AssignedStaffID: filter.AssignedStaffID,
		Statuses:        statuses,
	})
	if err != nil {
		return nil, err
	}
	jobs := make([]application.Job, 0, len(models))
	for _, model := range models {
		jobs = append(jobs, toApplicationJob(model))
	}
	return jobs, nil
}

type credentialStoreAdapter struct {
	repo persistence.StaffRepository
}

func newCredentialStoreAdapter(repo persistence.StaffRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetStaffCredentialsByEmail(ctx context.Context, email string) (application.StaffCredentials, error) {
	stored, err := a.repo.GetStaffByEmail(ctx, email)
	if err != nil {
		return application.StaffCredentials{}, mapPersistenceError(err)
	}
	return application.StaffCredentials{
		Member:       toApplicationStaff(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetStaff(ctx context.Context, id string) (application.StaffMember, error) {
	stored, err := a.repo.GetStaff(ctx, id)
	if err != nil {
		return application.StaffMember{}, mapPersistenceError(err)
	}
	return toApplicationStaff(stored), nil
}

type sessionStoreAdapter struct {
	repo persistence.SessionRepository
}

func newSessionStoreAdapter(repo persistence.SessionRepository) *sessionStoreAdapter {
	return &sessionStoreAdapter{repo: repo}
}

func (a *sessionStoreAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredSessions(ctx, reference))
}

// mapPersistenceError translates storage sentinels for services that match on
// application sentinels directly.
func mapPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return application.ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return application.ErrAlreadyExists
	}
	return err
}

func toApplicationStaff(model persistence.StaffMember) application.StaffMember {
	return application.StaffMember{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		Role:        model.Role,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toApplicationStaffList(models []persistence.StaffMember) []application.StaffMember {
	if len(models) == 0 {
		return nil
	}
	members := make([]application.StaffMember, 0, len(models))
	for _, model := range models {
		members = append(members, toApplicationStaff(model))
	}
	return members
}

func toPersistenceStaff(member application.StaffMember, passwordHash string) persistence.StaffMember {
	return persistence.StaffMember{
		ID:           member.ID,
		Email:        member.Email,
		DisplayName:  member.DisplayName,
		PasswordHash: passwordHash,
		Role:         member.Role,
		Active:       member.Active,
		CreatedAt:    member.CreatedAt,
		UpdatedAt:    member.UpdatedAt,
	}
}

func toSchedulingWindow(model persistence.AvailabilityWindow) scheduling.Window {
	return scheduling.Window{
		ID:        model.ID,
		StaffID:   model.StaffID,
		Day:       model.DayOfWeek,
		Start:     model.StartTime,
		End:       model.EndTime,
		Available: model.Available,
		Origin:    scheduling.OriginPersisted,
	}
}

func toPersistenceWindow(staffID string, window scheduling.Window) persistence.AvailabilityWindow {
	return persistence.AvailabilityWindow{
		ID:        window.ID,
		StaffID:   staffID,
		DayOfWeek: window.Day,
		StartTime: window.Start,
		EndTime:   window.End,
		Available: window.Available,
	}
}

func toApplicationJob(model persistence.Job) application.Job {
	return application.Job{
		ID:              model.ID,
		ClientName:      model.ClientName,
		Address:         cloneString(model.Address),
		AssignedStaffID: cloneString(model.AssignedStaffID),
		ScheduledDate:   model.ScheduledDate,
		ScheduledTime:   model.ScheduledTime,
		Status:          scheduling.Status(model.Status),
		Notes:           cloneString(model.Notes),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceJob(job application.Job) persistence.Job {
	return persistence.Job{
		ID:              job.ID,
		ClientName:      job.ClientName,
		Address:         cloneString(job.Address),
		AssignedStaffID: cloneString(job.AssignedStaffID),
		ScheduledDate:   job.ScheduledDate,
		ScheduledTime:   job.ScheduledTime,
		Status:          string(job.Status),
		Notes:           cloneString(job.Notes),
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:          model.ID,
		StaffID:     model.StaffID,
		Token:       model.Token,
		Fingerprint: model.Fingerprint,
		ExpiresAt:   model.ExpiresAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		RevokedAt:   cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		StaffID:     session.StaffID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
