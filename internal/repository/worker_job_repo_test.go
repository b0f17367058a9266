package repository

import (
	"Lighthouse/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var errFull = errors.New("full")

func workerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "worker_id", "status", "is_enabled", "max_concurrent_jobs"}).
		AddRow(7, "w-1", "active", true, 3)
}

func TestAssignLocksWorkerAndInsertsJob(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWorkerJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `workers` WHERE worker_id = \\?.*FOR UPDATE").
		WillReturnRows(workerRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `worker_jobs`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO `worker_jobs`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE `workers` SET `last_job_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	job := &model.WorkerJob{JobID: "job-1", WorkerID: "w-1", Platform: "facebook", JobType: "post_text",
		Status: model.JobStatusAssigned, MaxRetries: 3, AssignedAt: time.Now()}

	var seenLoad int64
	err := repo.Assign(context.Background(), job, func(w *model.Worker, load int64) error {
		if w == nil || w.WorkerID != "w-1" {
			t.Fatalf("unexpected worker %+v", w)
		}
		seenLoad = load
		return nil
	})
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if seenLoad != 2 {
		t.Fatalf("load = %d, want 2", seenLoad)
	}
	if job.ID != 11 {
		t.Fatalf("job id = %d, want 11", job.ID)
	}
	expectationsMet(t, mock)
}

func TestAssignRollsBackWhenCheckRejects(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWorkerJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM `workers`").WillReturnRows(workerRows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `worker_jobs`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	job := &model.WorkerJob{JobID: "job-2", WorkerID: "w-1", AssignedAt: time.Now()}
	err := repo.Assign(context.Background(), job, func(w *model.Worker, load int64) error {
		if load >= int64(w.MaxConcurrentJobs) {
			return errFull
		}
		return nil
	})
	if !errors.Is(err, errFull) {
		t.Fatalf("expected check error, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestAssignMissingWorkerPassesNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWorkerJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM `workers`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	err := repo.Assign(context.Background(), &model.WorkerJob{WorkerID: "ghost"}, func(w *model.Worker, _ int64) error {
		called = true
		if w != nil {
			t.Fatalf("expected nil worker, got %+v", w)
		}
		return errFull
	})
	if !called || !errors.Is(err, errFull) {
		t.Fatalf("check not invoked for missing worker: called=%v err=%v", called, err)
	}
	expectationsMet(t, mock)
}

func TestMutateSavesUnderLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWorkerJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `worker_jobs` WHERE job_id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "worker_id", "status", "retry_count", "max_retries"}).
			AddRow(5, "job-5", "w-1", "assigned", 0, 3))
	mock.ExpectExec("UPDATE `worker_jobs` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	job, err := repo.Mutate(context.Background(), "job-5", func(j *model.WorkerJob) error {
		j.Status = model.JobStatusStarted
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if job.Status != model.JobStatusStarted {
		t.Fatalf("status = %s, want started", job.Status)
	}
	expectationsMet(t, mock)
}

func TestCountByWorkerStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWorkerJobRepo(db)

	mock.ExpectQuery("SELECT worker_id, status, COUNT\\(\\*\\) AS total FROM `worker_jobs`").
		WillReturnRows(sqlmock.NewRows([]string{"worker_id", "status", "total"}).
			AddRow("w-1", "assigned", 2).
			AddRow("w-1", "started", 1).
			AddRow("w-1", "completed", 3).
			AddRow("w-1", "failed", 1))

	counts, err := repo.CountByWorkerStatus(context.Background(), []string{"w-1", "w-2"})
	if err != nil {
		t.Fatalf("CountByWorkerStatus returned error: %v", err)
	}
	if counts["w-1"].Live() != 3 || counts["w-1"].Total() != 7 {
		t.Fatalf("unexpected counts %v", counts["w-1"])
	}
	if rate, ok := counts["w-1"].SuccessRate(); !ok || rate != 0.75 {
		t.Fatalf("success rate = %v, %v", rate, ok)
	}
	if counts["w-2"].Live() != 0 {
		t.Fatalf("w-2 should have no load, got %v", counts["w-2"])
	}
	if _, ok := counts["w-2"].SuccessRate(); ok {
		t.Fatal("w-2 has no finished jobs")
	}
	expectationsMet(t, mock)

	empty, err := repo.CountByWorkerStatus(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map without query, got %v %v", empty, err)
	}
}
