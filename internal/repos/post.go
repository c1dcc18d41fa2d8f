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

// PublishedPostFilter narrows ListPublished; zero values are ignored.
type PublishedPostFilter struct {
	CharacterID uuid.UUID
	Platform    string
	Since       *time.Time
}

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error)
	ListPublished(ctx context.Context, tx *gorm.DB, filter PublishedPostFilter, limit, offset int) ([]*types.Post, error)
	IncrementCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, likes, comments, shares, views int64, syncedAt time.Time) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{
		db:  db,
		log: baseLog.With("repo", "PostRepo"),
	}
}

func (r *postRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if post == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var post types.Post
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) ListPublished(ctx context.Context, tx *gorm.DB, filter PublishedPostFilter, limit, offset int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	q := transaction.WithContext(ctx).
		Where("status = ?", types.PostStatusPublished).
		Where("published_at IS NOT NULL")
	if filter.CharacterID != uuid.Nil {
		q = q.Where("character_id = ?", filter.CharacterID)
	}
	if filter.Platform != "" {
		q = q.Where("platform = ?", filter.Platform)
	}
	if filter.Since != nil {
		q = q.Where("published_at >= ?", *filter.Since)
	}
	var out []*types.Post
	if err := q.Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementCounters applies engagement deltas atomically in the database so
// concurrent simulations against the same post do not lose updates.
func (r *postRepo) IncrementCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, likes, comments, shares, views int64, syncedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":             gorm.Expr("likes_count + ?", likes),
			"comments_count":          gorm.Expr("comments_count + ?", comments),
			"shares_count":            gorm.Expr("shares_count + ?", shares),
			"views_count":             gorm.Expr("views_count + ?", views),
			"last_engagement_sync_at": syncedAt,
			"updated_at":              time.Now(),
		}).Error
}

func (r *postRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Post{}).
		Where("id = ?", id).
		Updates(updates).Error
}
