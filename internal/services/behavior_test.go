package services

import (
	"math/rand"
	"testing"
	"time"
)

func TestDelayVariationStaysWithinBounds(t *testing.T) {
	b := NewBehaviorRandomizer(testLogger(t), DefaultBehaviorProfile(), rand.New(rand.NewSource(1)))
	base := 100 * time.Second

	for i := 0; i < 500; i++ {
		d := b.DelayVariation(base, 0.3)
		if d < 70*time.Second || d > 130*time.Second {
			t.Fatalf("varied delay %s outside ±30%% of %s", d, base)
		}
	}
}

func TestDelayVariationPassthrough(t *testing.T) {
	b := NewBehaviorRandomizer(testLogger(t), DefaultBehaviorProfile(), rand.New(rand.NewSource(2)))
	if got := b.DelayVariation(0, 0.3); got != 0 {
		t.Fatalf("zero base varied to %s", got)
	}
	if got := b.DelayVariation(10*time.Second, 0); got != 10*time.Second {
		t.Fatalf("zero variation changed delay to %s", got)
	}
}

func TestShouldEngageWithPostExtremes(t *testing.T) {
	b := NewBehaviorRandomizer(testLogger(t), DefaultBehaviorProfile(), rand.New(rand.NewSource(3)))

	// rate=1, quality=1 gives probability 1.0.
	for i := 0; i < 200; i++ {
		if !b.ShouldEngageWithPost(1, 1) {
			t.Fatal("perfect post not engaged")
		}
	}

	// rate=0, quality=0 leaves the 0.2 floor; over many draws some posts
	// still get engagement but most are passed over.
	engaged := 0
	for i := 0; i < 2000; i++ {
		if b.ShouldEngageWithPost(0, 0) {
			engaged++
		}
	}
	if engaged == 0 {
		t.Fatal("probability floor never engaged")
	}
	if engaged > 700 {
		t.Fatalf("low-value posts engaged %d/2000 times, expected near the 0.2 floor", engaged)
	}
}

func TestBreakDurationWithinProfileRange(t *testing.T) {
	profile := DefaultBehaviorProfile()
	b := NewBehaviorRandomizer(testLogger(t), profile, rand.New(rand.NewSource(4)))
	minD := time.Duration(profile.BreakMinMinutes * float64(time.Minute))
	maxD := time.Duration(profile.BreakMaxMinutes * float64(time.Minute))

	for i := 0; i < 200; i++ {
		d := b.BreakDuration()
		if d < minD || d > maxD {
			t.Fatalf("break %s outside [%s, %s]", d, minD, maxD)
		}
	}
}

func TestShouldTakeBreakZeroProbability(t *testing.T) {
	profile := DefaultBehaviorProfile()
	profile.BreakProbability = 0
	b := NewBehaviorRandomizer(testLogger(t), profile, rand.New(rand.NewSource(5)))
	for i := 0; i < 200; i++ {
		if b.ShouldTakeBreak() {
			t.Fatal("break taken with zero probability")
		}
	}
}
