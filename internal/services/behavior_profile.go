package services

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/novaluma/novaluma-backend/internal/types"
)

// DelayRange is a [Min,Max] seconds range for one action type.
type DelayRange struct {
	MinSeconds float64 `yaml:"min_seconds"`
	MaxSeconds float64 `yaml:"max_seconds"`
}

type SleepHours struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// BehaviorProfile holds the human-cadence parameters consumed by
// HumanTimingService and BehaviorRandomizer. Loadable from YAML so operators
// can tune cadence per deployment without a rebuild.
type BehaviorProfile struct {
	SkipProbability      float64               `yaml:"skip_probability"`
	SleepSkipProbability float64               `yaml:"sleep_skip_probability"`
	Sleep                SleepHours            `yaml:"sleep_hours"`
	BreakProbability     float64               `yaml:"break_probability"`
	BreakMinMinutes      float64               `yaml:"break_min_minutes"`
	BreakMaxMinutes      float64               `yaml:"break_max_minutes"`
	Delays               map[string]DelayRange `yaml:"delays"`
}

// DefaultBehaviorProfile mirrors observed human pacing: occasional skips,
// long night-time lulls, short frequent delays for likes and longer ones for
// composed text.
func DefaultBehaviorProfile() BehaviorProfile {
	return BehaviorProfile{
		SkipProbability:      0.15,
		SleepSkipProbability: 0.75,
		Sleep:                SleepHours{Start: 1, End: 7},
		BreakProbability:     0.05,
		BreakMinMinutes:      10,
		BreakMaxMinutes:      45,
		Delays: map[string]DelayRange{
			types.ActionTypeLike:       {MinSeconds: 3, MaxSeconds: 20},
			types.ActionTypeComment:    {MinSeconds: 45, MaxSeconds: 180},
			types.ActionTypeFollow:     {MinSeconds: 10, MaxSeconds: 60},
			types.ActionTypeUnfollow:   {MinSeconds: 10, MaxSeconds: 60},
			types.ActionTypeStory:      {MinSeconds: 60, MaxSeconds: 300},
			types.ActionTypeDMResponse: {MinSeconds: 30, MaxSeconds: 240},
			types.ActionTypeDMSend:     {MinSeconds: 60, MaxSeconds: 360},
		},
	}
}

// LoadBehaviorProfile reads a YAML profile and overlays it on the defaults;
// empty path returns the defaults untouched.
func LoadBehaviorProfile(path string) (BehaviorProfile, error) {
	profile := DefaultBehaviorProfile()
	if path == "" {
		return profile, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read behavior profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return profile, fmt.Errorf("parse behavior profile: %w", err)
	}
	return profile, nil
}

func (p BehaviorProfile) delayRange(actionType string) DelayRange {
	if r, ok := p.Delays[actionType]; ok && r.MaxSeconds > 0 {
		return r
	}
	return DelayRange{MinSeconds: 15, MaxSeconds: 90}
}

func (p BehaviorProfile) breakRange() (time.Duration, time.Duration) {
	minD := time.Duration(p.BreakMinMinutes * float64(time.Minute))
	maxD := time.Duration(p.BreakMaxMinutes * float64(time.Minute))
	if maxD <= minD {
		maxD = minD + time.Minute
	}
	return minD, maxD
}
