package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// BehaviorRandomizer layers the coarser human quirks on top of
// HumanTimingService: periodic breaks, selective engagement, and jitter on
// base delays.
type BehaviorRandomizer interface {
	ShouldTakeBreak() bool
	BreakDuration() time.Duration
	ShouldEngageWithPost(engagementRate, postQuality float64) bool
	DelayVariation(base time.Duration, variationPct float64) time.Duration
}

type behaviorRandomizer struct {
	log     *logger.Logger
	profile BehaviorProfile

	mu  sync.Mutex
	rng *rand.Rand
}

func NewBehaviorRandomizer(baseLog *logger.Logger, profile BehaviorProfile, rng *rand.Rand) BehaviorRandomizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &behaviorRandomizer{
		log:     baseLog.With("service", "BehaviorRandomizer"),
		profile: profile,
		rng:     rng,
	}
}

func (b *behaviorRandomizer) ShouldTakeBreak() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64() < b.profile.BreakProbability
}

func (b *behaviorRandomizer) BreakDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	minD, maxD := b.profile.breakRange()
	return minD + time.Duration(b.rng.Float64()*float64(maxD-minD))
}

// ShouldEngageWithPost gates like/comment actions on target attractiveness:
// low-quality, low-traction posts are mostly ignored, the way a human
// scrolls past them.
func (b *behaviorRandomizer) ShouldEngageWithPost(engagementRate, postQuality float64) bool {
	engagementRate = clamp01(engagementRate)
	postQuality = clamp01(postQuality)
	probability := 0.2 + 0.45*postQuality + 0.35*engagementRate
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64() < probability
}

// DelayVariation jitters base by ±variationPct, never below zero.
func (b *behaviorRandomizer) DelayVariation(base time.Duration, variationPct float64) time.Duration {
	if base <= 0 || variationPct <= 0 {
		return base
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	factor := 1 + (b.rng.Float64()*2-1)*variationPct
	if factor < 0 {
		factor = 0
	}
	return time.Duration(float64(base) * factor)
}
