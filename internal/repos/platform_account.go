package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type PlatformAccountRepo interface {
	Create(ctx context.Context, tx *gorm.DB, account *types.PlatformAccount) (*types.PlatformAccount, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlatformAccount, error)
	ListByCharacter(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) ([]*types.PlatformAccount, error)
}

type platformAccountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlatformAccountRepo(db *gorm.DB, baseLog *logger.Logger) PlatformAccountRepo {
	return &platformAccountRepo{
		db:  db,
		log: baseLog.With("repo", "PlatformAccountRepo"),
	}
}

func (r *platformAccountRepo) Create(ctx context.Context, tx *gorm.DB, account *types.PlatformAccount) (*types.PlatformAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if account == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *platformAccountRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlatformAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var account types.PlatformAccount
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *platformAccountRepo) ListByCharacter(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) ([]*types.PlatformAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.PlatformAccount
	if characterID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
