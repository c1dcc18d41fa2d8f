package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// jobHistoryKeep bounds per-kind job history; older rows are evicted on
// every enqueue (LRU by creation time).
const jobHistoryKeep = 200

// GenerationJobService is the bookkeeping state machine for generation
// jobs: queued -> running -> succeeded|failed|cancelled. Cancellation is
// cooperative: RequestCancel flags the job, workers call AckCancel at poll
// boundaries.
type GenerationJobService interface {
	Enqueue(ctx context.Context, characterID uuid.UUID, kind string, params map[string]any) (*types.GenerationJob, error)
	Start(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error)
	Complete(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error)
	Fail(ctx context.Context, jobID uuid.UUID, cause error) (*types.GenerationJob, error)
	RequestCancel(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error)
	AckCancel(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error)
	ListRecent(ctx context.Context, kind string, limit int) ([]*types.GenerationJob, error)
}

type generationJobService struct {
	db   *gorm.DB
	log  *logger.Logger
	jobs repos.GenerationJobRepo
}

func NewGenerationJobService(db *gorm.DB, baseLog *logger.Logger, jobs repos.GenerationJobRepo) GenerationJobService {
	return &generationJobService{
		db:   db,
		log:  baseLog.With("service", "GenerationJobService"),
		jobs: jobs,
	}
}

func (s *generationJobService) Enqueue(ctx context.Context, characterID uuid.UUID, kind string, params map[string]any) (*types.GenerationJob, error) {
	if characterID == uuid.Nil {
		return nil, fmt.Errorf("missing character id")
	}
	switch kind {
	case types.JobKindImage, types.JobKindVideo, types.JobKindModel3D, types.JobKindAudioSync:
	default:
		return nil, fmt.Errorf("unknown job kind %q", kind)
	}
	if params == nil {
		params = map[string]any{}
	}
	raw, _ := json.Marshal(params)

	now := time.Now()
	job := &types.GenerationJob{
		ID:          uuid.New(),
		CharacterID: characterID,
		Kind:        kind,
		Status:      types.JobStatusQueued,
		Params:      datatypes.JSON(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.jobs.Create(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if err := s.jobs.PruneHistory(ctx, nil, kind, jobHistoryKeep); err != nil {
		s.log.Warn("Job history prune failed", "kind", kind, "error", err)
	}
	s.log.Info("Generation job queued", "job_id", job.ID, "kind", kind, "character_id", characterID)
	return job, nil
}

func (s *generationJobService) Start(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error) {
	return s.transition(ctx, jobID, types.JobStatusRunning, func(job *types.GenerationJob, updates map[string]interface{}) error {
		if job.Status != types.JobStatusQueued {
			return fmt.Errorf("job %s is %s, cannot start", job.ID, job.Status)
		}
		updates["started_at"] = time.Now()
		return nil
	})
}

func (s *generationJobService) Complete(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error) {
	return s.transition(ctx, jobID, types.JobStatusSucceeded, func(job *types.GenerationJob, updates map[string]interface{}) error {
		if job.Status != types.JobStatusRunning {
			return fmt.Errorf("job %s is %s, cannot complete", job.ID, job.Status)
		}
		updates["finished_at"] = time.Now()
		return nil
	})
}

func (s *generationJobService) Fail(ctx context.Context, jobID uuid.UUID, cause error) (*types.GenerationJob, error) {
	return s.transition(ctx, jobID, types.JobStatusFailed, func(job *types.GenerationJob, updates map[string]interface{}) error {
		if job.Terminal() {
			return fmt.Errorf("job %s is %s, cannot fail", job.ID, job.Status)
		}
		if cause != nil {
			updates["error"] = cause.Error()
		}
		updates["finished_at"] = time.Now()
		return nil
	})
}

// RequestCancel only flags the job; a queued job is cancelled immediately,
// a running one keeps running until the worker acknowledges.
func (s *generationJobService) RequestCancel(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error) {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Terminal() {
		return nil, fmt.Errorf("job %s is %s, cannot cancel", job.ID, job.Status)
	}
	updates := map[string]interface{}{"cancel_requested": true}
	if job.Status == types.JobStatusQueued {
		updates["status"] = types.JobStatusCancelled
		updates["finished_at"] = time.Now()
	}
	if err := s.jobs.UpdateFields(ctx, nil, job.ID, updates); err != nil {
		return nil, fmt.Errorf("update job %s: %w", job.ID, err)
	}
	return s.load(ctx, jobID)
}

// AckCancel is called by workers at poll boundaries once they observe
// CancelRequested.
func (s *generationJobService) AckCancel(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error) {
	return s.transition(ctx, jobID, types.JobStatusCancelled, func(job *types.GenerationJob, updates map[string]interface{}) error {
		if !job.CancelRequested {
			return fmt.Errorf("job %s has no pending cancel request", job.ID)
		}
		if job.Terminal() {
			return fmt.Errorf("job %s is already %s", job.ID, job.Status)
		}
		updates["finished_at"] = time.Now()
		return nil
	})
}

func (s *generationJobService) ListRecent(ctx context.Context, kind string, limit int) ([]*types.GenerationJob, error) {
	return s.jobs.ListRecent(ctx, nil, kind, limit)
}

func (s *generationJobService) load(ctx context.Context, jobID uuid.UUID) (*types.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return job, nil
}

func (s *generationJobService) transition(ctx context.Context, jobID uuid.UUID, to string, check func(*types.GenerationJob, map[string]interface{}) error) (*types.GenerationJob, error) {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"status": to}
	if err := check(job, updates); err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateFields(ctx, nil, job.ID, updates); err != nil {
		return nil, fmt.Errorf("update job %s: %w", job.ID, err)
	}
	return s.load(ctx, jobID)
}
