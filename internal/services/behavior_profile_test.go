package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/novaluma/novaluma-backend/internal/types"
)

func TestLoadBehaviorProfileEmptyPathUsesDefaults(t *testing.T) {
	profile, err := LoadBehaviorProfile("")
	if err != nil {
		t.Fatalf("LoadBehaviorProfile: %v", err)
	}
	want := DefaultBehaviorProfile()
	if profile.SkipProbability != want.SkipProbability || profile.Sleep != want.Sleep {
		t.Fatalf("profile=%+v, want defaults", profile)
	}
}

func TestLoadBehaviorProfileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "behavior.yaml")
	raw := []byte(`
skip_probability: 0.5
sleep_hours:
  start: 23
  end: 8
delays:
  like:
    min_seconds: 1
    max_seconds: 2
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	profile, err := LoadBehaviorProfile(path)
	if err != nil {
		t.Fatalf("LoadBehaviorProfile: %v", err)
	}
	if profile.SkipProbability != 0.5 {
		t.Fatalf("SkipProbability=%v, want 0.5", profile.SkipProbability)
	}
	if profile.Sleep.Start != 23 || profile.Sleep.End != 8 {
		t.Fatalf("Sleep=%+v, want 23-8", profile.Sleep)
	}
	if r := profile.Delays[types.ActionTypeLike]; r.MinSeconds != 1 || r.MaxSeconds != 2 {
		t.Fatalf("like delay=%+v, want 1-2s", r)
	}
	// Fields absent from the file keep their defaults.
	if profile.BreakProbability != DefaultBehaviorProfile().BreakProbability {
		t.Fatalf("BreakProbability=%v, want default", profile.BreakProbability)
	}
}

func TestLoadBehaviorProfileMissingFile(t *testing.T) {
	profile, err := LoadBehaviorProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing file accepted")
	}
	// The error path still returns a usable default profile.
	if profile.SkipProbability != DefaultBehaviorProfile().SkipProbability {
		t.Fatalf("SkipProbability=%v, want default on error", profile.SkipProbability)
	}
}

func TestDelayRangeFallback(t *testing.T) {
	profile := DefaultBehaviorProfile()
	r := profile.delayRange("mystery")
	if r.MinSeconds != 15 || r.MaxSeconds != 90 {
		t.Fatalf("fallback range=%+v, want 15-90s", r)
	}
}
