package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cleanops/internal/persistence"
)

func seedJob(t *testing.T, repo *JobRepository, job persistence.Job) {
	t.Helper()

	if job.Status == "" {
		job.Status = "pending"
	}
	if err := repo.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob %s failed: %v", job.ID, err)
	}
}

func strPtr(value string) *string {
	return &value
}

func TestJobRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewJobRepository(pool)
	ctx := context.Background()

	job := persistence.Job{
		ID:            "job1",
		ClientName:    "Acme Offices",
		Address:       strPtr("12 High St"),
		ScheduledDate: "2026-09-01",
		ScheduledTime: "09:00",
		Status:        "pending",
		Notes:         strPtr("keys in lockbox"),
	}
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	retrieved, err := repo.GetJob(ctx, "job1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if retrieved.ClientName != "Acme Offices" || retrieved.Status != "pending" {
		t.Errorf("unexpected record: %+v", retrieved)
	}
	if retrieved.Address == nil || *retrieved.Address != "12 High St" {
		t.Errorf("address did not round-trip: %v", retrieved.Address)
	}
	if retrieved.Notes == nil || *retrieved.Notes != "keys in lockbox" {
		t.Errorf("notes did not round-trip: %v", retrieved.Notes)
	}
	if retrieved.AssignedStaffID != nil {
		t.Errorf("expected unassigned job, got %v", *retrieved.AssignedStaffID)
	}
}

func TestJobRepository_AssignRequiresKnownStaff(t *testing.T) {
	pool := newTestPool(t)
	repo := NewJobRepository(pool)
	ctx := context.Background()

	job := persistence.Job{
		ID:              "job1",
		ClientName:      "Acme Offices",
		AssignedStaffID: strPtr("ghost"),
		ScheduledDate:   "2026-09-01",
		ScheduledTime:   "09:00",
		Status:          "pending",
	}
	err := repo.CreateJob(ctx, job)
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation for unknown assignee, got %v", err)
	}
}

func TestJobRepository_UpdateMissingJob(t *testing.T) {
	pool := newTestPool(t)
	repo := NewJobRepository(pool)

	job := persistence.Job{
		ID:            "missing",
		ClientName:    "Acme Offices",
		ScheduledDate: "2026-09-01",
		ScheduledTime: "09:00",
		Status:        "pending",
	}
	if err := repo.UpdateJob(context.Background(), job); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobRepository_ListJobsFilters(t *testing.T) {
	pool := newTestPool(t)
	staff := NewStaffRepository(pool)
	repo := NewJobRepository(pool)
	ctx := context.Background()

	seedStaff(t, staff, "staff1", "Dana")
	seedStaff(t, staff, "staff2", "Amy")

	seedJob(t, repo, persistence.Job{ID: "job1", ClientName: "A", ScheduledDate: "2026-09-01", ScheduledTime: "11:00", AssignedStaffID: strPtr("staff1")})
	seedJob(t, repo, persistence.Job{ID: "job2", ClientName: "B", ScheduledDate: "2026-09-01", ScheduledTime: "09:00", AssignedStaffID: strPtr("staff2"), Status: "completed"})
	seedJob(t, repo, persistence.Job{ID: "job3", ClientName: "C", ScheduledDate: "2026-09-02", ScheduledTime: "09:00", AssignedStaffID: strPtr("staff1")})
	seedJob(t, repo, persistence.Job{ID: "job4", ClientName: "D", ScheduledDate: "2026-09-01", ScheduledTime: "10:00"})

	tests := []struct {
		name    string
		filter  persistence.JobFilter
		wantIDs []string
	}{
		{
			name:    "by date ordered by time",
			filter:  persistence.JobFilter{ScheduledDate: "2026-09-01"},
			wantIDs: []string{"job2", "job4", "job1"},
		},
		{
			name:    "by assignee",
			filter:  persistence.JobFilter{AssignedStaffID: "staff1"},
			wantIDs: []string{"job1", "job3"},
		},
		{
			name:    "by status",
			filter:  persistence.JobFilter{Statuses: []string{"completed"}},
			wantIDs: []string{"job2"},
		},
		{
			name:    "combined",
			filter:  persistence.JobFilter{ScheduledDate: "2026-09-01", Statuses: []string{"pending"}},
			wantIDs: []string{"job4", "job1"},
		},
		{
			name:    "no filter returns everything",
			filter:  persistence.JobFilter{},
			wantIDs: []string{"job2", "job4", "job1", "job3"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			jobs, err := repo.ListJobs(ctx, tc.filter)
			if err != nil {
				t.Fatalf("ListJobs failed: %v", err)
			}
			if len(jobs) != len(tc.wantIDs) {
				t.Fatalf("expected %d jobs, got %d", len(tc.wantIDs), len(jobs))
			}
			for i, id := range tc.wantIDs {
				if jobs[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, jobs[i].ID)
				}
			}
		})
	}
}

func TestJobRepository_ActiveSlotsOnDate(t *testing.T) {
	pool := newTestPool(t)
	staff := NewStaffRepository(pool)
	repo := NewJobRepository(pool)
	ctx := context.Background()

	seedStaff(t, staff, "staff1", "Dana")
	seedStaff(t, staff, "staff2", "Amy")

	seedJob(t, repo, persistence.Job{ID: "job1", ClientName: "A", ScheduledDate: "2026-09-01", ScheduledTime: "09:30", AssignedStaffID: strPtr("staff1")})
	seedJob(t, repo, persistence.Job{ID: "job2", ClientName: "B", ScheduledDate: "2026-09-01", ScheduledTime: "09:00", AssignedStaffID: strPtr("staff2"), Status: "in_progress"})
	seedJob(t, repo, persistence.Job{ID: "job3", ClientName: "C", ScheduledDate: "2026-09-01", ScheduledTime: "10:00", AssignedStaffID: strPtr("staff1"), Status: "completed"})
	seedJob(t, repo, persistence.Job{ID: "job4", ClientName: "D", ScheduledDate: "2026-09-01", ScheduledTime: "11:00", AssignedStaffID: strPtr("staff2"), Status: "cancelled"})
	seedJob(t, repo, persistence.Job{ID: "job5", ClientName: "E", ScheduledDate: "2026-09-01", ScheduledTime: "12:00"})
	seedJob(t, repo, persistence.Job{ID: "job6", ClientName: "F", ScheduledDate: "2026-09-02", ScheduledTime: "09:00", AssignedStaffID: strPtr("staff1")})

	slots, err := repo.ActiveSlotsOnDate(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("ActiveSlotsOnDate failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 active slots, got %d", len(slots))
	}
	if slots[0].AssignedStaffID != "staff2" || slots[0].ScheduledTime != "09:00" {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	if slots[1].AssignedStaffID != "staff1" || slots[1].ScheduledTime != "09:30" {
		t.Errorf("unexpected second slot: %+v", slots[1])
	}
}
