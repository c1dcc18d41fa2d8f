package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/types"
)

type fakeJobRepo struct {
	jobs map[uuid.UUID]*types.GenerationJob

	pruneCalls []string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*types.GenerationJob{}}
}

func (r *fakeJobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.GenerationJob) (*types.GenerationJob, error) {
	clone := *job
	r.jobs[job.ID] = &clone
	return job, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *job
	return &clone, nil
}

func (r *fakeJobRepo) ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]*types.GenerationJob, error) {
	var out []*types.GenerationJob
	for _, job := range r.jobs {
		if kind != "" && job.Kind != kind {
			continue
		}
		clone := *job
		out = append(out, &clone)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeJobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	job, ok := r.jobs[id]
	if !ok {
		return errors.New("job not found")
	}
	for key, value := range updates {
		switch key {
		case "status":
			job.Status = value.(string)
		case "error":
			job.Error = value.(string)
		case "cancel_requested":
			job.CancelRequested = value.(bool)
		case "started_at":
			at := value.(time.Time)
			job.StartedAt = &at
		case "finished_at":
			at := value.(time.Time)
			job.FinishedAt = &at
		}
	}
	return nil
}

func (r *fakeJobRepo) PruneHistory(ctx context.Context, tx *gorm.DB, kind string, keep int) error {
	r.pruneCalls = append(r.pruneCalls, kind)
	return nil
}

func newJobFixture(t *testing.T) (GenerationJobService, *fakeJobRepo) {
	t.Helper()
	repo := newFakeJobRepo()
	return NewGenerationJobService(nil, testLogger(t), repo), repo
}

func TestJobLifecycleHappyPath(t *testing.T) {
	svc, repo := newJobFixture(t)
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, uuid.New(), types.JobKindImage, map[string]any{"prompt": "sunset"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.Status != types.JobStatusQueued {
		t.Fatalf("Status=%q, want queued", job.Status)
	}
	if len(repo.pruneCalls) != 1 || repo.pruneCalls[0] != types.JobKindImage {
		t.Fatalf("pruneCalls=%v, want one prune for the job kind", repo.pruneCalls)
	}

	job, err = svc.Start(ctx, job.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if job.Status != types.JobStatusRunning || job.StartedAt == nil {
		t.Fatalf("after Start: status=%q started_at=%v", job.Status, job.StartedAt)
	}

	job, err = svc.Complete(ctx, job.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if job.Status != types.JobStatusSucceeded || job.FinishedAt == nil {
		t.Fatalf("after Complete: status=%q finished_at=%v", job.Status, job.FinishedAt)
	}
}

func TestJobEnqueueRejectsUnknownKind(t *testing.T) {
	svc, _ := newJobFixture(t)
	if _, err := svc.Enqueue(context.Background(), uuid.New(), "hologram", nil); err == nil {
		t.Fatal("unknown kind accepted")
	}
	if _, err := svc.Enqueue(context.Background(), uuid.Nil, types.JobKindImage, nil); err == nil {
		t.Fatal("nil character id accepted")
	}
}

func TestJobStartRequiresQueued(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, uuid.New(), types.JobKindVideo, nil)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := svc.Start(ctx, job.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Start(ctx, job.ID); err == nil {
		t.Fatal("double Start accepted")
	}
	if _, err := svc.Complete(ctx, job.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := svc.Complete(ctx, job.ID); err == nil {
		t.Fatal("Complete on terminal job accepted")
	}
}

func TestJobFailRecordsCause(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, _ := svc.Enqueue(ctx, uuid.New(), types.JobKindModel3D, nil)
	if _, err := svc.Start(ctx, job.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job, err := svc.Fail(ctx, job.ID, errors.New("render backend timeout"))
	if err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if job.Status != types.JobStatusFailed {
		t.Fatalf("Status=%q, want failed", job.Status)
	}
	if !strings.Contains(job.Error, "render backend timeout") {
		t.Fatalf("Error=%q missing cause", job.Error)
	}

	if _, err := svc.Fail(ctx, job.ID, errors.New("again")); err == nil {
		t.Fatal("Fail on terminal job accepted")
	}
}

func TestJobCancelQueuedIsImmediate(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, _ := svc.Enqueue(ctx, uuid.New(), types.JobKindAudioSync, nil)
	job, err := svc.RequestCancel(ctx, job.ID)
	if err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if job.Status != types.JobStatusCancelled || !job.CancelRequested {
		t.Fatalf("after cancel: status=%q cancel_requested=%v", job.Status, job.CancelRequested)
	}
	if job.FinishedAt == nil {
		t.Fatal("cancelled job has no finished_at")
	}
}

func TestJobCancelRunningIsCooperative(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, _ := svc.Enqueue(ctx, uuid.New(), types.JobKindImage, nil)
	if _, err := svc.Start(ctx, job.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job, err := svc.RequestCancel(ctx, job.ID)
	if err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	// Still running until the worker acknowledges.
	if job.Status != types.JobStatusRunning || !job.CancelRequested {
		t.Fatalf("after request: status=%q cancel_requested=%v", job.Status, job.CancelRequested)
	}

	job, err = svc.AckCancel(ctx, job.ID)
	if err != nil {
		t.Fatalf("AckCancel: %v", err)
	}
	if job.Status != types.JobStatusCancelled {
		t.Fatalf("after ack: status=%q, want cancelled", job.Status)
	}
}

func TestJobAckCancelWithoutRequest(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, _ := svc.Enqueue(ctx, uuid.New(), types.JobKindImage, nil)
	if _, err := svc.Start(ctx, job.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.AckCancel(ctx, job.ID); err == nil {
		t.Fatal("AckCancel without a pending request accepted")
	}
}

func TestJobCancelTerminalRejected(t *testing.T) {
	svc, _ := newJobFixture(t)
	ctx := context.Background()

	job, _ := svc.Enqueue(ctx, uuid.New(), types.JobKindImage, nil)
	if _, err := svc.Start(ctx, job.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Complete(ctx, job.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := svc.RequestCancel(ctx, job.ID); err == nil {
		t.Fatal("cancel of terminal job accepted")
	}
}

func TestJobMissing(t *testing.T) {
	svc, _ := newJobFixture(t)
	if _, err := svc.Start(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
