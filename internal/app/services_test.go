package app

import (
	"sync"
	"testing"
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
)

// Stochastic services lock only their own rng, so the wiring must hand each
// one its own source. Run with -race to catch a shared source regressing.
func TestWireServicesConcurrentStochasticDraws(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	cfg := Config{
		ServiceName:    "novaluma-backend",
		SocialPlatform: "instagram",
		SocialDryRun:   false,
	}

	svcs := wireServices(nil, log, cfg, Repos{})
	if svcs.Decision == nil || svcs.Timing == nil || svcs.Behavior == nil || svcs.Composer == nil || svcs.Followers == nil {
		t.Fatal("wiring left a stochastic service nil")
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			svcs.Decision.Decide(0.5, 0.5, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			svcs.Timing.ShouldSkipAction()
			svcs.Timing.EngagementDelay("like")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			svcs.Behavior.ShouldTakeBreak()
			svcs.Behavior.DelayVariation(time.Second, 0.3)
		}
	}()
	wg.Wait()
}
