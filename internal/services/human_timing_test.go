package services

import (
	"math/rand"
	"testing"
	"time"
)

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 1, hour, 30, 0, 0, time.UTC)
	}
}

func TestEngagementDelayWithinProfileRange(t *testing.T) {
	profile := DefaultBehaviorProfile()
	svc := NewHumanTimingService(testLogger(t), profile, rand.New(rand.NewSource(1)))

	for actionType, r := range profile.Delays {
		for i := 0; i < 200; i++ {
			d := svc.EngagementDelay(actionType)
			minD := time.Duration(r.MinSeconds * float64(time.Second))
			maxD := time.Duration(r.MaxSeconds * float64(time.Second))
			if d < minD || d > maxD {
				t.Fatalf("%s delay %s outside [%s, %s]", actionType, d, minD, maxD)
			}
		}
	}
}

func TestEngagementDelayUnknownActionUsesDefaultRange(t *testing.T) {
	svc := NewHumanTimingService(testLogger(t), DefaultBehaviorProfile(), rand.New(rand.NewSource(2)))
	for i := 0; i < 100; i++ {
		d := svc.EngagementDelay("mystery")
		if d < 15*time.Second || d > 90*time.Second {
			t.Fatalf("default delay %s outside [15s, 90s]", d)
		}
	}
}

func TestShouldSkipActionRespectsProbabilities(t *testing.T) {
	profile := DefaultBehaviorProfile()
	profile.SkipProbability = 0
	profile.SleepSkipProbability = 1

	svc := NewHumanTimingService(testLogger(t), profile, rand.New(rand.NewSource(3))).(*humanTimingService)

	svc.nowFn = fixedClock(12)
	for i := 0; i < 100; i++ {
		if svc.ShouldSkipAction() {
			t.Fatal("daytime action skipped with zero skip probability")
		}
	}

	svc.nowFn = fixedClock(3)
	for i := 0; i < 100; i++ {
		if !svc.ShouldSkipAction() {
			t.Fatal("sleep-hours action dispatched with certain skip probability")
		}
	}
}

func TestInSleepHoursMidnightCrossing(t *testing.T) {
	profile := DefaultBehaviorProfile()
	profile.Sleep = SleepHours{Start: 22, End: 6}
	svc := NewHumanTimingService(testLogger(t), profile, rand.New(rand.NewSource(4))).(*humanTimingService)

	cases := []struct {
		hour int
		want bool
	}{
		{hour: 23, want: true},
		{hour: 3, want: true},
		{hour: 6, want: false},
		{hour: 12, want: false},
		{hour: 22, want: true},
	}
	for _, tc := range cases {
		if got := svc.inSleepHours(fixedClock(tc.hour)()); got != tc.want {
			t.Fatalf("inSleepHours(hour=%d)=%v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestInSleepHoursDisabledWindow(t *testing.T) {
	profile := DefaultBehaviorProfile()
	profile.Sleep = SleepHours{Start: 5, End: 5}
	svc := NewHumanTimingService(testLogger(t), profile, rand.New(rand.NewSource(5))).(*humanTimingService)
	if svc.inSleepHours(fixedClock(5)()) {
		t.Fatal("zero-width sleep window should never match")
	}
}
