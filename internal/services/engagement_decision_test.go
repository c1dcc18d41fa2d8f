package services

import (
	"math/rand"
	"testing"
)

func TestDecideZeroCompatibilityNeverInteracts(t *testing.T) {
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(1)))
	for i := 0; i < 500; i++ {
		d := engine.Decide(0, 1, 0)
		if d.WillInteract {
			t.Fatalf("interaction with zero compatibility on iteration %d", i)
		}
	}
}

func TestDecideMaxAffinityAlwaysLikes(t *testing.T) {
	// compat=1, extroversion=1 gives interaction probability 1.0 and
	// intensity 1.0 on a fresh post, so every decision is at least a like.
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(2)))
	for i := 0; i < 500; i++ {
		d := engine.Decide(1, 1, 0)
		if !d.WillInteract {
			t.Fatalf("no interaction at max affinity on iteration %d", i)
		}
		if d.Likes != 1 {
			t.Fatalf("Likes=%d, want 1", d.Likes)
		}
	}
}

func TestDecideOldPostAccruesNothing(t *testing.T) {
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(3)))
	for i := 0; i < 500; i++ {
		d := engine.Decide(1, 1, 100)
		if d.Likes != 0 || d.Comments != 0 || d.Shares != 0 {
			t.Fatalf("stale post got counters: %+v", d)
		}
	}
}

func TestDecideDeterministicWithSeed(t *testing.T) {
	a := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(42)))
	b := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(42)))
	for i := 0; i < 200; i++ {
		da := a.Decide(0.7, 0.6, float64(i))
		db := b.Decide(0.7, 0.6, float64(i))
		if da != db {
			t.Fatalf("iteration %d diverged: %+v vs %+v", i, da, db)
		}
	}
}

func TestDecideCountersAreBinary(t *testing.T) {
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(4)))
	for i := 0; i < 1000; i++ {
		d := engine.Decide(0.95, 0.9, 1)
		if d.Likes < 0 || d.Likes > 1 || d.Comments < 0 || d.Comments > 1 || d.Shares < 0 || d.Shares > 1 {
			t.Fatalf("counter out of range: %+v", d)
		}
		if !d.WillInteract && (d.Likes+d.Comments+d.Shares) != 0 {
			t.Fatalf("non-interaction carries counters: %+v", d)
		}
	}
}

func TestDecideEligibilityDecaysMonotonically(t *testing.T) {
	// At compat=1, extroversion=1 every draw interacts and intensity equals
	// the age decay, so each counter's eligibility window closes at a fixed
	// age and must never reopen as posts get older.
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(6)))

	likeOpen, commentOpen, shareOpen := true, true, true
	for age := 0.0; age <= 78; age += 6 {
		var likes, comments, shares int
		for i := 0; i < 400; i++ {
			d := engine.Decide(1, 1, age)
			likes += d.Likes
			comments += d.Comments
			shares += d.Shares
		}
		if likes > 0 && !likeOpen {
			t.Fatalf("likes reappeared at age %.0fh", age)
		}
		if comments > 0 && !commentOpen {
			t.Fatalf("comments reappeared at age %.0fh", age)
		}
		if shares > 0 && !shareOpen {
			t.Fatalf("shares reappeared at age %.0fh", age)
		}
		likeOpen = likes > 0
		commentOpen = comments > 0
		shareOpen = shares > 0
	}
	if likeOpen || commentOpen || shareOpen {
		t.Fatal("eligibility still open past the decay window")
	}
}

func TestDecideCommentsRarerThanLikes(t *testing.T) {
	engine := NewEngagementDecisionEngine(testLogger(t), rand.New(rand.NewSource(5)))
	var likes, comments, shares int
	for i := 0; i < 5000; i++ {
		d := engine.Decide(1, 1, 0)
		likes += d.Likes
		comments += d.Comments
		shares += d.Shares
	}
	if comments >= likes {
		t.Fatalf("comments (%d) should be rarer than likes (%d)", comments, likes)
	}
	if shares >= comments {
		t.Fatalf("shares (%d) should be rarer than comments (%d)", shares, comments)
	}
}
