package services

import (
	"strings"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// Compatibility weights. The score starts from a neutral base and is pulled
// up or down by interest overlap, personality distance, shared communication
// style, topic overlap and location.
const (
	compatBase          = 0.5
	compatInterestsW    = 0.4
	compatExtroversionW = 0.15
	compatStyleBonus    = 0.15
	compatTopicsW       = 0.2
	compatLocationBonus = 0.1
)

type CompatibilityScorer interface {
	Score(actor, target *types.Character) float64
}

type compatibilityService struct {
	log *logger.Logger
}

func NewCompatibilityService(baseLog *logger.Logger) CompatibilityScorer {
	return &compatibilityService{
		log: baseLog.With("service", "CompatibilityService"),
	}
}

// Score computes a [0,1] affinity between two characters. Missing
// sub-components (absent personality, empty sets) contribute zero to their
// term; the result is clamped to [0,1].
func (s *compatibilityService) Score(actor, target *types.Character) float64 {
	if actor == nil || target == nil {
		return 0
	}
	score := compatBase

	score += compatInterestsW * jaccard(actor.InterestsList(), target.InterestsList())

	if actor.Personality != nil && target.Personality != nil {
		diff := actor.Personality.Extroversion - target.Personality.Extroversion
		if diff < 0 {
			diff = -diff
		}
		score += compatExtroversionW * (1 - diff)

		aStyle := strings.TrimSpace(actor.Personality.CommunicationStyle)
		tStyle := strings.TrimSpace(target.Personality.CommunicationStyle)
		if aStyle != "" && strings.EqualFold(aStyle, tStyle) {
			score += compatStyleBonus
		}

		score += compatTopicsW * jaccard(actor.Personality.PreferredTopicsList(), target.Personality.PreferredTopicsList())
	}

	aLoc := strings.TrimSpace(actor.Location)
	tLoc := strings.TrimSpace(target.Location)
	if aLoc != "" && strings.EqualFold(aLoc, tLoc) {
		score += compatLocationBonus
	}

	return clamp01(score)
}

// jaccard is |A∩B| / |A∪B| over case-folded sets; 0 when the union is empty.
func jaccard(a, b []string) float64 {
	setA := foldSet(a)
	setB := foldSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func foldSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		out[item] = struct{}{}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
