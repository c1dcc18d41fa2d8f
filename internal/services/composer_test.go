package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/novaluma/novaluma-backend/internal/types"
)

type fakeGenerator struct {
	text string
	err  error

	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	g.lastSystem = system
	g.lastUser = user
	return g.text, g.err
}

func TestComposeCommentUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{text: "That sunset is unreal!"}
	composer := NewPersonaComposer(testLogger(t), gen, rand.New(rand.NewSource(1)))
	character := testCharacter("Luna", func(c *types.Character) {
		c.Personality = &types.PersonalityTraits{Extroversion: 0.9, CommunicationStyle: "bubbly"}
	})

	got := composer.ComposeComment(context.Background(), character, "beach sunset photo", nil)
	if got.FromFallback {
		t.Fatal("generator output flagged as fallback")
	}
	if got.Text != "That sunset is unreal!" {
		t.Fatalf("Text=%q, want generator output", got.Text)
	}
	if !strings.Contains(gen.lastSystem, "Luna") {
		t.Fatalf("system prompt %q missing character name", gen.lastSystem)
	}
	if !strings.Contains(gen.lastUser, "beach sunset photo") {
		t.Fatalf("user prompt %q missing post context", gen.lastUser)
	}
}

func TestComposeCommentFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("api down")}
	composer := NewPersonaComposer(testLogger(t), gen, rand.New(rand.NewSource(2)))
	fallbacks := []string{"Nice one!"}

	got := composer.ComposeComment(context.Background(), nil, "anything", fallbacks)
	if !got.FromFallback {
		t.Fatal("fallback text not flagged")
	}
	if got.Text != "Nice one!" {
		t.Fatalf("Text=%q, want supplied fallback", got.Text)
	}
}

func TestComposeDMWithoutGeneratorUsesDefaults(t *testing.T) {
	composer := NewPersonaComposer(testLogger(t), nil, rand.New(rand.NewSource(3)))
	got := composer.ComposeDM(context.Background(), nil, "hi there", nil)
	if !got.FromFallback {
		t.Fatal("default template not flagged as fallback")
	}
	found := false
	for _, tmpl := range defaultDMTemplates {
		if got.Text == tmpl {
			found = true
		}
	}
	if !found {
		t.Fatalf("Text=%q not one of the default DM templates", got.Text)
	}
}

func TestComposeIgnoresBlankGeneration(t *testing.T) {
	gen := &fakeGenerator{text: "   "}
	composer := NewPersonaComposer(testLogger(t), gen, rand.New(rand.NewSource(4)))
	got := composer.ComposeComment(context.Background(), nil, "x", []string{"fallback"})
	if !got.FromFallback || got.Text != "fallback" {
		t.Fatalf("blank generation not treated as failure: %+v", got)
	}
}

func TestPersonaSystemPrompt(t *testing.T) {
	character := testCharacter("Aria", func(c *types.Character) {
		c.Bio = "travel creator"
		c.Personality = &types.PersonalityTraits{
			Extroversion:       0.8,
			CommunicationStyle: "warm",
			PreferredTopics:    jsonList("travel", "food"),
		}
	})
	prompt := personaSystemPrompt(character)
	for _, want := range []string{"Aria", "travel creator", "warm", "travel, food"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt %q missing %q", prompt, want)
		}
	}
	if got := personaSystemPrompt(nil); !strings.Contains(got, "influencer") {
		t.Fatalf("nil character prompt %q", got)
	}
}
