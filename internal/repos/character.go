package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type CharacterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, character *types.Character) (*types.Character, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Character, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Character, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Character, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type characterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCharacterRepo(db *gorm.DB, baseLog *logger.Logger) CharacterRepo {
	return &characterRepo{
		db:  db,
		log: baseLog.With("repo", "CharacterRepo"),
	}
}

func (r *characterRepo) Create(ctx context.Context, tx *gorm.DB, character *types.Character) (*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if character == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(character).Error; err != nil {
		return nil, err
	}
	return character, nil
}

func (r *characterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var character types.Character
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&character).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.Character
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *characterRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Character
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *characterRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Character{}).
		Where("id = ?", id).
		Updates(updates).Error
}
