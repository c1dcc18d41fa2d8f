package services

import (
	"math"
	"testing"

	"github.com/novaluma/novaluma-backend/internal/types"
)

func TestCompatibilityScore(t *testing.T) {
	scorer := NewCompatibilityService(testLogger(t))

	cases := []struct {
		name   string
		actor  *types.Character
		target *types.Character
		want   float64
	}{
		{
			name:   "nil_actor",
			actor:  nil,
			target: testCharacter("b", nil),
			want:   0,
		},
		{
			name:   "no_overlap_no_personality",
			actor:  testCharacter("a", nil),
			target: testCharacter("b", nil),
			want:   0.5,
		},
		{
			name: "partial_interest_overlap",
			actor: testCharacter("a", func(c *types.Character) {
				c.Interests = jsonList("travel", "food")
			}),
			target: testCharacter("b", func(c *types.Character) {
				c.Interests = jsonList("food", "tech")
			}),
			// base + 0.4 * (1/3)
			want: 0.5 + 0.4/3,
		},
		{
			name: "personality_distance_and_style",
			actor: testCharacter("a", func(c *types.Character) {
				c.Personality = &types.PersonalityTraits{Extroversion: 0.8, CommunicationStyle: "casual"}
			}),
			target: testCharacter("b", func(c *types.Character) {
				c.Personality = &types.PersonalityTraits{Extroversion: 0.4, CommunicationStyle: "Casual"}
			}),
			// base + 0.15*(1-0.4) + style bonus
			want: 0.5 + 0.15*0.6 + 0.15,
		},
		{
			name: "shared_location_case_insensitive",
			actor: testCharacter("a", func(c *types.Character) {
				c.Location = "Los Angeles"
			}),
			target: testCharacter("b", func(c *types.Character) {
				c.Location = "los angeles"
			}),
			want: 0.6,
		},
		{
			name: "everything_matches_clamps_to_one",
			actor: testCharacter("a", func(c *types.Character) {
				c.Location = "Tokyo"
				c.Interests = jsonList("fashion", "travel")
				c.Personality = &types.PersonalityTraits{
					Extroversion:       0.9,
					CommunicationStyle: "playful",
					PreferredTopics:    jsonList("fashion"),
				}
			}),
			target: testCharacter("b", func(c *types.Character) {
				c.Location = "Tokyo"
				c.Interests = jsonList("fashion", "travel")
				c.Personality = &types.PersonalityTraits{
					Extroversion:       0.9,
					CommunicationStyle: "playful",
					PreferredTopics:    jsonList("fashion"),
				}
			}),
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Score(tc.actor, tc.target)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Score()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompatibilityScoreSymmetry(t *testing.T) {
	scorer := NewCompatibilityService(testLogger(t))
	a := testCharacter("a", func(c *types.Character) {
		c.Interests = jsonList("music", "art")
		c.Personality = &types.PersonalityTraits{Extroversion: 0.3, CommunicationStyle: "thoughtful"}
	})
	b := testCharacter("b", func(c *types.Character) {
		c.Interests = jsonList("art", "film")
		c.Personality = &types.PersonalityTraits{Extroversion: 0.7}
	})
	if got, want := scorer.Score(a, b), scorer.Score(b, a); got != want {
		t.Fatalf("Score not symmetric: %v vs %v", got, want)
	}
}

func TestJaccard(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "both_empty", a: nil, b: nil, want: 0},
		{name: "disjoint", a: []string{"x"}, b: []string{"y"}, want: 0},
		{name: "identical", a: []string{"x", "y"}, b: []string{"Y", "x "}, want: 1},
		{name: "half", a: []string{"x", "y"}, b: []string{"y", "z"}, want: 1.0 / 3.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := jaccard(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("jaccard(%v,%v)=%v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
