package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// BatchResult counts how much of a batch simulation actually landed.
type BatchResult struct {
	Considered int `json:"considered"`
	Updated    int `json:"updated"`
}

// CollaborationService mediates simulated character-to-character engagement:
// compatibility-gated, age-decayed interactions applied to post counters.
type CollaborationService interface {
	SimulateInteraction(ctx context.Context, actorID, postID uuid.UUID) (*types.Post, error)
	SimulateInteractionsForCharacter(ctx context.Context, actorID uuid.UUID, maxPostsPerTarget int) (*BatchResult, error)
	SimulateCollaborationNetwork(ctx context.Context, interactionsPerCharacter int) (*BatchResult, error)
}

type collaborationService struct {
	db       *gorm.DB
	log      *logger.Logger
	chars    repos.CharacterRepo
	posts    repos.PostRepo
	compat   CompatibilityScorer
	decision EngagementDecisionEngine
	nowFn    func() time.Time

	// networkConcurrency bounds the per-actor fan-out in network runs.
	networkConcurrency int
}

func NewCollaborationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chars repos.CharacterRepo,
	posts repos.PostRepo,
	compat CompatibilityScorer,
	decision EngagementDecisionEngine,
) CollaborationService {
	return &collaborationService{
		db:                 db,
		log:                baseLog.With("service", "CollaborationService"),
		chars:              chars,
		posts:              posts,
		compat:             compat,
		decision:           decision,
		nowFn:              time.Now,
		networkConcurrency: 4,
	}
}

// SimulateInteraction evaluates one (actor, post) pair. Unmet preconditions
// (missing actor/post/target, unpublished post, self-interaction) and a
// negative decision all return (nil, nil); only infrastructure failures
// return an error.
func (s *collaborationService) SimulateInteraction(ctx context.Context, actorID, postID uuid.UUID) (*types.Post, error) {
	actor, err := s.chars.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, fmt.Errorf("load actor %s: %w", actorID, err)
	}
	if actor == nil {
		return nil, nil
	}

	post, err := s.posts.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	if post == nil || !post.Engageable() {
		return nil, nil
	}
	if post.CharacterID == actor.ID {
		// Characters never engage with their own posts.
		return nil, nil
	}

	target, err := s.chars.GetByID(ctx, nil, post.CharacterID)
	if err != nil {
		return nil, fmt.Errorf("load target character %s: %w", post.CharacterID, err)
	}
	if target == nil {
		return nil, nil
	}

	now := s.nowFn()
	compatibility := s.compat.Score(actor, target)
	extroversion := 0.0
	if actor.Personality != nil {
		extroversion = actor.Personality.Extroversion
	}
	ageHours := now.Sub(*post.PublishedAt).Hours()

	decision := s.decision.Decide(compatibility, extroversion, ageHours)
	if !decision.WillInteract {
		return nil, nil
	}

	if err := s.posts.IncrementCounters(ctx, nil, post.ID,
		int64(decision.Likes), int64(decision.Comments), int64(decision.Shares), 0, now); err != nil {
		return nil, fmt.Errorf("apply engagement to post %s: %w", post.ID, err)
	}

	updated, err := s.posts.GetByID(ctx, nil, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post %s: %w", post.ID, err)
	}
	s.log.Debug("Simulated interaction applied",
		"actor_id", actor.ID, "post_id", post.ID,
		"compatibility", compatibility,
		"likes", decision.Likes, "comments", decision.Comments, "shares", decision.Shares)
	return updated, nil
}

// SimulateInteractionsForCharacter runs the actor against recent published
// posts of every other character, bounded by maxPostsPerTarget. Per-pair
// failures are logged and skipped; the batch always completes.
func (s *collaborationService) SimulateInteractionsForCharacter(ctx context.Context, actorID uuid.UUID, maxPostsPerTarget int) (*BatchResult, error) {
	if maxPostsPerTarget <= 0 {
		maxPostsPerTarget = 3
	}
	actor, err := s.chars.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, fmt.Errorf("load actor %s: %w", actorID, err)
	}
	if actor == nil {
		return nil, fmt.Errorf("actor %s: %w", actorID, ErrNotFound)
	}

	others, err := s.chars.List(ctx, nil, 500, 0)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	result := &BatchResult{}
	for _, target := range others {
		if target.ID == actor.ID {
			continue
		}
		posts, err := s.posts.ListPublished(ctx, nil, repos.PublishedPostFilter{CharacterID: target.ID}, maxPostsPerTarget, 0)
		if err != nil {
			s.log.Warn("Failed to list posts for target, skipping", "target_id", target.ID, "error", err)
			continue
		}
		for _, post := range posts {
			result.Considered++
			updated, err := s.SimulateInteraction(ctx, actor.ID, post.ID)
			if err != nil {
				s.log.Warn("Pair simulation failed, skipping", "actor_id", actor.ID, "post_id", post.ID, "error", err)
				continue
			}
			if updated != nil {
				result.Updated++
			}
		}
	}
	return result, nil
}

// SimulateCollaborationNetwork runs every character as an actor, fanning out
// with bounded concurrency. Individual actors failing does not abort the run.
func (s *collaborationService) SimulateCollaborationNetwork(ctx context.Context, interactionsPerCharacter int) (*BatchResult, error) {
	if interactionsPerCharacter <= 0 {
		interactionsPerCharacter = 2
	}
	characters, err := s.chars.List(ctx, nil, 500, 0)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	var mu sync.Mutex
	total := &BatchResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.networkConcurrency)
	for _, actor := range characters {
		g.Go(func() error {
			res, err := s.SimulateInteractionsForCharacter(gctx, actor.ID, interactionsPerCharacter)
			if err != nil {
				s.log.Warn("Actor simulation failed, skipping", "actor_id", actor.ID, "error", err)
				return nil
			}
			mu.Lock()
			total.Considered += res.Considered
			total.Updated += res.Updated
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	s.log.Info("Collaboration network run complete", "considered", total.Considered, "updated", total.Updated)
	return total, nil
}
