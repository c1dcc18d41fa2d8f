package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// Organic accrual half-life: most synthetic "organic" engagement lands in
// the first day after publishing.
const organicHalfLifeHours = 18.0

// FollowerSimulationService fabricates realistic-looking organic engagement
// for owned posts: likes/comments/shares/views accruing over time as a
// function of post age, platform and content type.
type FollowerSimulationService interface {
	AccrueOrganicEngagement(ctx context.Context, postID uuid.UUID, now time.Time) (*types.Post, error)
	AccrueForRecentPosts(ctx context.Context, window time.Duration, limit int) (*BatchResult, error)
}

type followerSimulationService struct {
	db    *gorm.DB
	log   *logger.Logger
	posts repos.PostRepo

	mu  sync.Mutex
	rng *rand.Rand
}

func NewFollowerSimulationService(db *gorm.DB, baseLog *logger.Logger, posts repos.PostRepo, rng *rand.Rand) FollowerSimulationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &followerSimulationService{
		db:    db,
		log:   baseLog.With("service", "FollowerSimulationService"),
		posts: posts,
		rng:   rng,
	}
}

// Base likes-per-hour for a fresh post, by platform.
var platformBaseRate = map[string]float64{
	types.PlatformInstagram: 14,
	types.PlatformYouTube:   8,
	types.PlatformTelegram:  5,
	types.PlatformOnlyFans:  6,
	types.PlatformTwitter:   10,
	types.PlatformFacebook:  7,
}

// Content-type multipliers: short video formats travel furthest.
var postTypeMultiplier = map[string]float64{
	"reel":  1.6,
	"video": 1.3,
	"image": 1.0,
	"story": 0.7,
	"text":  0.5,
}

// AccrueOrganicEngagement adds one accrual tick to a published post. The
// tick size decays exponentially with post age; increments are always
// non-negative, so counters only ever grow.
func (s *followerSimulationService) AccrueOrganicEngagement(ctx context.Context, postID uuid.UUID, now time.Time) (*types.Post, error) {
	post, err := s.posts.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	if post == nil || !post.Engageable() {
		return nil, nil
	}

	ageHours := now.Sub(*post.PublishedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	base, ok := platformBaseRate[post.Platform]
	if !ok {
		base = 6
	}
	multiplier, ok := postTypeMultiplier[post.PostType]
	if !ok {
		multiplier = 1.0
	}

	decay := math.Exp2(-ageHours / organicHalfLifeHours)
	s.mu.Lock()
	jitter := 0.5 + s.rng.Float64()
	s.mu.Unlock()

	likes := int64(base * multiplier * decay * jitter)
	if likes <= 0 {
		return nil, nil
	}
	comments := int64(float64(likes) * 0.08)
	shares := int64(float64(likes) * 0.03)
	views := likes * 12

	if err := s.posts.IncrementCounters(ctx, nil, post.ID, likes, comments, shares, views, now); err != nil {
		return nil, fmt.Errorf("apply organic engagement to post %s: %w", post.ID, err)
	}
	updated, err := s.posts.GetByID(ctx, nil, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post %s: %w", post.ID, err)
	}
	s.log.Debug("Organic engagement accrued",
		"post_id", post.ID, "age_hours", ageHours,
		"likes", likes, "comments", comments, "shares", shares, "views", views)
	return updated, nil
}

// AccrueForRecentPosts ticks every post published inside the window.
// Per-post failures are logged and skipped.
func (s *followerSimulationService) AccrueForRecentPosts(ctx context.Context, window time.Duration, limit int) (*BatchResult, error) {
	if window <= 0 {
		window = 72 * time.Hour
	}
	if limit <= 0 {
		limit = 200
	}
	now := time.Now()
	since := now.Add(-window)
	posts, err := s.posts.ListPublished(ctx, nil, repos.PublishedPostFilter{Since: &since}, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	result := &BatchResult{}
	for _, post := range posts {
		result.Considered++
		updated, err := s.AccrueOrganicEngagement(ctx, post.ID, now)
		if err != nil {
			s.log.Warn("Organic accrual failed, skipping post", "post_id", post.ID, "error", err)
			continue
		}
		if updated != nil {
			result.Updated++
		}
	}
	return result, nil
}
