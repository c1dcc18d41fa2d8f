package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type GenerationJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.GenerationJob) (*types.GenerationJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationJob, error)
	ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]*types.GenerationJob, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// PruneHistory deletes everything but the newest keep rows of a kind.
	PruneHistory(ctx context.Context, tx *gorm.DB, kind string, keep int) error
}

type generationJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationJobRepo(db *gorm.DB, baseLog *logger.Logger) GenerationJobRepo {
	return &generationJobRepo{
		db:  db,
		log: baseLog.With("repo", "GenerationJobRepo"),
	}
}

func (r *generationJobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.GenerationJob) (*types.GenerationJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if job == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *generationJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var job types.GenerationJob
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *generationJobRepo) ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]*types.GenerationJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	q := transaction.WithContext(ctx).Model(&types.GenerationJob{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []*types.GenerationJob
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *generationJobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.GenerationJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *generationJobRepo) PruneHistory(ctx context.Context, tx *gorm.DB, kind string, keep int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if kind == "" || keep <= 0 {
		return nil
	}
	var cutoffIDs []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.GenerationJob{}).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Offset(keep).
		Pluck("id", &cutoffIDs).Error; err != nil {
		return err
	}
	if len(cutoffIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", cutoffIDs).
		Delete(&types.GenerationJob{}).Error
}
