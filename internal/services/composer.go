package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// ComposedText is the outcome of a persona text generation. FromFallback is
// true when generation failed and a template was used instead, so callers
// and tests can assert both paths.
type ComposedText struct {
	Text         string
	FromFallback bool
}

// PersonaComposer builds short persona-voiced text (comments, DMs).
// Generation is best-effort: a failing TextGenerator degrades to the
// supplied fallback templates and never blocks the action.
type PersonaComposer interface {
	ComposeComment(ctx context.Context, character *types.Character, postContext string, fallbacks []string) ComposedText
	ComposeDM(ctx context.Context, character *types.Character, conversationContext string, fallbacks []string) ComposedText
}

type personaComposer struct {
	log       *logger.Logger
	generator TextGenerator

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPersonaComposer(baseLog *logger.Logger, generator TextGenerator, rng *rand.Rand) PersonaComposer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &personaComposer{
		log:       baseLog.With("service", "PersonaComposer"),
		generator: generator,
		rng:       rng,
	}
}

var defaultCommentTemplates = []string{
	"Love this! 🔥",
	"This is amazing!",
	"Great content, keep it up!",
	"Obsessed with this 😍",
}

var defaultDMTemplates = []string{
	"Hey! Thanks for reaching out 💛",
	"Hi! So glad you messaged me!",
}

func (c *personaComposer) ComposeComment(ctx context.Context, character *types.Character, postContext string, fallbacks []string) ComposedText {
	prompt := fmt.Sprintf("Write one short, natural social media comment reacting to this post: %s", postContext)
	return c.compose(ctx, character, prompt, fallbacks, defaultCommentTemplates)
}

func (c *personaComposer) ComposeDM(ctx context.Context, character *types.Character, conversationContext string, fallbacks []string) ComposedText {
	prompt := fmt.Sprintf("Write one short, friendly direct message continuing this conversation: %s", conversationContext)
	return c.compose(ctx, character, prompt, fallbacks, defaultDMTemplates)
}

func (c *personaComposer) compose(ctx context.Context, character *types.Character, prompt string, fallbacks, defaults []string) ComposedText {
	if c.generator != nil {
		text, err := c.generator.GenerateText(ctx, personaSystemPrompt(character), prompt)
		text = strings.TrimSpace(text)
		if err == nil && text != "" {
			return ComposedText{Text: text}
		}
		if err != nil {
			c.log.Warn("Persona text generation failed, falling back to template", "error", err)
		}
	}
	pool := fallbacks
	if len(pool) == 0 {
		pool = defaults
	}
	c.mu.Lock()
	pick := pool[c.rng.Intn(len(pool))]
	c.mu.Unlock()
	return ComposedText{Text: pick, FromFallback: true}
}

// personaSystemPrompt renders personality traits into generation guidance.
func personaSystemPrompt(character *types.Character) string {
	if character == nil {
		return "You are a friendly social media influencer."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a social media influencer.", character.Name)
	if character.Bio != "" {
		fmt.Fprintf(&b, " Bio: %s.", character.Bio)
	}
	if p := character.Personality; p != nil {
		fmt.Fprintf(&b, " Personality: extroversion %.1f, creativity %.1f, humor %.1f, professionalism %.1f, authenticity %.1f.",
			p.Extroversion, p.Creativity, p.Humor, p.Professionalism, p.Authenticity)
		if p.CommunicationStyle != "" {
			fmt.Fprintf(&b, " Communication style: %s.", p.CommunicationStyle)
		}
		if topics := p.PreferredTopicsList(); len(topics) > 0 {
			fmt.Fprintf(&b, " Favorite topics: %s.", strings.Join(topics, ", "))
		}
	}
	b.WriteString(" Stay in character and keep replies short.")
	return b.String()
}
