package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// HumanTimingService imitates human cadence: actions are sometimes skipped
// outright (much more often during sleep hours) and every dispatched action
// waits a per-action-type randomized delay.
type HumanTimingService interface {
	ShouldSkipAction() bool
	EngagementDelay(actionType string) time.Duration
}

type humanTimingService struct {
	log     *logger.Logger
	profile BehaviorProfile
	nowFn   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewHumanTimingService(baseLog *logger.Logger, profile BehaviorProfile, rng *rand.Rand) HumanTimingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &humanTimingService{
		log:     baseLog.With("service", "HumanTimingService"),
		profile: profile,
		nowFn:   time.Now,
		rng:     rng,
	}
}

func (s *humanTimingService) ShouldSkipAction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	probability := s.profile.SkipProbability
	if s.inSleepHours(s.nowFn()) {
		probability = s.profile.SleepSkipProbability
	}
	return s.rng.Float64() < probability
}

func (s *humanTimingService) EngagementDelay(actionType string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.profile.delayRange(actionType)
	seconds := r.MinSeconds
	if r.MaxSeconds > r.MinSeconds {
		seconds += s.rng.Float64() * (r.MaxSeconds - r.MinSeconds)
	}
	return time.Duration(seconds * float64(time.Second))
}

func (s *humanTimingService) inSleepHours(now time.Time) bool {
	start := s.profile.Sleep.Start
	end := s.profile.Sleep.End
	if start == end {
		return false
	}
	hour := now.Hour()
	if start < end {
		return hour >= start && hour < end
	}
	// window crosses midnight
	return hour >= start || hour < end
}
