package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// Engagement decay window: a post older than this accrues nothing.
const engagementDecayHours = 72.0

// Interaction funnel thresholds. Likes are the lowest-friction signal,
// shares the highest-commitment one.
const (
	likeIntensityThreshold    = 0.3
	commentIntensityThreshold = 0.6
	shareIntensityThreshold   = 0.8
	commentProbability        = 0.4
	shareProbability          = 0.2
)

// Decision is one synthesized interaction between an actor and a post.
type Decision struct {
	WillInteract bool
	Likes        int
	Comments     int
	Shares       int
}

type EngagementDecisionEngine interface {
	Decide(compatibility, actorExtroversion, postAgeHours float64) Decision
}

type engagementDecisionEngine struct {
	log *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngagementDecisionEngine builds the stochastic decision engine. Pass a
// seeded rng for deterministic tests; nil seeds from the clock.
func NewEngagementDecisionEngine(baseLog *logger.Logger, rng *rand.Rand) EngagementDecisionEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &engagementDecisionEngine{
		log: baseLog.With("service", "EngagementDecisionEngine"),
		rng: rng,
	}
}

// Decide draws whether the actor interacts at all, then scales interaction
// intensity by compatibility, extroversion and post age. The caller excludes
// self-interactions; this engine never sees actor identity.
func (e *engagementDecisionEngine) Decide(compatibility, actorExtroversion, postAgeHours float64) Decision {
	compatibility = clamp01(compatibility)
	actorExtroversion = clamp01(actorExtroversion)

	e.mu.Lock()
	defer e.mu.Unlock()

	interactionProbability := compatibility * (0.3 + 0.7*actorExtroversion)
	if e.rng.Float64() >= interactionProbability {
		return Decision{}
	}

	ageDecay := 1 - postAgeHours/engagementDecayHours
	if ageDecay < 0 {
		ageDecay = 0
	}
	intensity := compatibility * (0.4 + 0.6*actorExtroversion) * ageDecay

	d := Decision{WillInteract: true}
	if intensity > likeIntensityThreshold {
		d.Likes = 1
	}
	if intensity > commentIntensityThreshold && e.rng.Float64() < commentProbability {
		d.Comments = 1
	}
	if intensity > shareIntensityThreshold && e.rng.Float64() < shareProbability {
		d.Shares = 1
	}
	return d
}
