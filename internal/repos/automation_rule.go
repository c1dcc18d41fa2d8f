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

type AutomationRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.AutomationRule) (*types.AutomationRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AutomationRule, error)
	ListEnabled(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.AutomationRule, error)
	// RecordExecution bumps the statistics counters atomically: exactly one
	// of success_count/failure_count alongside times_executed.
	RecordExecution(ctx context.Context, tx *gorm.DB, id uuid.UUID, success bool, at time.Time) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type automationRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAutomationRuleRepo(db *gorm.DB, baseLog *logger.Logger) AutomationRuleRepo {
	return &automationRuleRepo{
		db:  db,
		log: baseLog.With("repo", "AutomationRuleRepo"),
	}
}

func (r *automationRuleRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.AutomationRule) (*types.AutomationRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if rule == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *automationRuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AutomationRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rule types.AutomationRule
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *automationRuleRepo) ListEnabled(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.AutomationRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.AutomationRule
	if err := transaction.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *automationRuleRepo) RecordExecution(ctx context.Context, tx *gorm.DB, id uuid.UUID, success bool, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	updates := map[string]interface{}{
		"times_executed":   gorm.Expr("times_executed + 1"),
		"last_executed_at": at,
		"updated_at":       time.Now(),
	}
	if success {
		updates["success_count"] = gorm.Expr("success_count + 1")
	} else {
		updates["failure_count"] = gorm.Expr("failure_count + 1")
	}
	return transaction.WithContext(ctx).
		Model(&types.AutomationRule{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *automationRuleRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.AutomationRule{}).
		Where("id = ?", id).
		Updates(updates).Error
}
