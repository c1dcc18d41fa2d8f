package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

const (
	ExecutionStatusExecuted = "executed"
	ExecutionStatusSkipped  = "skipped"
)

// ExecutionResult describes one rule execution attempt. Skipped results are
// a normal outcome (rate limit, human-timing gate, break), not an error,
// and mutate no rule statistics.
type ExecutionResult struct {
	RuleID     uuid.UUID      `json:"rule_id"`
	ActionType string         `json:"action_type"`
	Status     string         `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	Delay      time.Duration  `json:"delay,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
}

type AutomationSchedulerService interface {
	ExecuteRule(ctx context.Context, ruleID uuid.UUID) (*ExecutionResult, error)
}

type automationScheduler struct {
	db        *gorm.DB
	log       *logger.Logger
	rules     repos.AutomationRuleRepo
	accounts  repos.PlatformAccountRepo
	chars     repos.CharacterRepo
	guard     RateLimitGuard
	timing    HumanTimingService
	behavior  BehaviorRandomizer
	composer  PersonaComposer
	engager   Engager
	publisher Publisher
	windows   ExecutionWindowStore

	// sleepFn pauses for the pacing delay; injectable so tests do not wait.
	sleepFn func(ctx context.Context, d time.Duration) error
	nowFn   func() time.Time
}

func NewAutomationSchedulerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	rules repos.AutomationRuleRepo,
	accounts repos.PlatformAccountRepo,
	chars repos.CharacterRepo,
	guard RateLimitGuard,
	timing HumanTimingService,
	behavior BehaviorRandomizer,
	composer PersonaComposer,
	engager Engager,
	publisher Publisher,
	windows ExecutionWindowStore,
) AutomationSchedulerService {
	return &automationScheduler{
		db:        db,
		log:       baseLog.With("service", "AutomationSchedulerService"),
		rules:     rules,
		accounts:  accounts,
		chars:     chars,
		guard:     guard,
		timing:    timing,
		behavior:  behavior,
		composer:  composer,
		engager:   engager,
		publisher: publisher,
		windows:   windows,
		sleepFn:   sleepContext,
		nowFn:     time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExecuteRule runs one rule attempt through the gate chain:
// eligible -> (skip | delayed -> dispatched) -> (success | failure).
// Skips mutate nothing; dispatched attempts always bump TimesExecuted plus
// exactly one of SuccessCount/FailureCount.
func (s *automationScheduler) ExecuteRule(ctx context.Context, ruleID uuid.UUID) (*ExecutionResult, error) {
	rule, err := s.rules.GetByID(ctx, nil, ruleID)
	if err != nil {
		return nil, fmt.Errorf("load rule %s: %w", ruleID, err)
	}
	if rule == nil {
		return nil, fmt.Errorf("rule %s: %w", ruleID, ErrNotFound)
	}
	log := s.log.With("rule_id", rule.ID, "action_type", rule.ActionType)

	if s.accounts != nil && rule.PlatformAccountID != uuid.Nil {
		account, err := s.accounts.GetByID(ctx, nil, rule.PlatformAccountID)
		if err != nil {
			return nil, fmt.Errorf("load platform account %s: %w", rule.PlatformAccountID, err)
		}
		if account == nil {
			return nil, fmt.Errorf("platform account %s: %w", rule.PlatformAccountID, ErrNotFound)
		}
		if !account.IsActive {
			log.Info("Rule execution skipped, platform account inactive", "account_id", account.ID)
			return s.skipped(rule, "platform account is inactive"), nil
		}
	}

	now := s.nowFn()
	if ok, reason := s.guard.CanExecute(ctx, rule, now); !ok {
		log.Info("Rule execution blocked by rate limit", "reason", reason)
		return s.skipped(rule, reason), nil
	}

	if s.timing.ShouldSkipAction() {
		log.Info("Rule execution skipped by human timing")
		return s.skipped(rule, "skipped to vary activity pattern"), nil
	}

	if s.behavior.ShouldTakeBreak() {
		breakFor := s.behavior.BreakDuration()
		log.Info("Rule execution deferred for a break", "break", breakFor)
		return s.skipped(rule, fmt.Sprintf("taking a break for %s", breakFor.Round(time.Second))), nil
	}

	if rule.ActionType == types.ActionTypeLike || rule.ActionType == types.ActionTypeComment {
		engagementRate := configFloat(rule, "target_engagement_rate", 0.5)
		postQuality := configFloat(rule, "target_post_quality", 0.5)
		if !s.behavior.ShouldEngageWithPost(engagementRate, postQuality) {
			log.Info("Rule execution skipped by selective engagement gate")
			return s.skipped(rule, "target post did not pass selective engagement"), nil
		}
	}

	delay := s.behavior.DelayVariation(s.timing.EngagementDelay(rule.ActionType), 0.3)
	if err := s.sleepFn(ctx, delay); err != nil {
		// Context cancelled during pacing; nothing dispatched, no statistics.
		return s.skipped(rule, "cancelled while pacing"), nil
	}

	output, dispatchErr := s.dispatch(ctx, rule)
	executedAt := s.nowFn()
	if recErr := s.rules.RecordExecution(ctx, nil, rule.ID, dispatchErr == nil, executedAt); recErr != nil {
		log.Error("Failed to record rule execution statistics", "error", recErr)
	}
	if s.windows != nil {
		if werr := s.windows.Record(ctx, rule.ID, executedAt); werr != nil {
			log.Warn("Failed to record execution window entry", "error", werr)
		}
	}

	if dispatchErr != nil {
		log.Error("Rule action failed", "error", dispatchErr)
		return nil, fmt.Errorf("execute rule %s (%s): %w", rule.ID, rule.ActionType, dispatchErr)
	}

	log.Info("Rule executed", "delay", delay)
	return &ExecutionResult{
		RuleID:     rule.ID,
		ActionType: rule.ActionType,
		Status:     ExecutionStatusExecuted,
		Delay:      delay,
		Output:     output,
	}, nil
}

func (s *automationScheduler) skipped(rule *types.AutomationRule, reason string) *ExecutionResult {
	return &ExecutionResult{
		RuleID:     rule.ID,
		ActionType: rule.ActionType,
		Status:     ExecutionStatusSkipped,
		Reason:     reason,
	}
}

// dispatch routes to the action handler. The action-type set is closed;
// anything else is a configuration error.
func (s *automationScheduler) dispatch(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	switch rule.ActionType {
	case types.ActionTypeComment:
		return s.executeComment(ctx, rule)
	case types.ActionTypeLike:
		return s.executeLike(ctx, rule)
	case types.ActionTypeFollow:
		return s.executeFollow(ctx, rule)
	case types.ActionTypeUnfollow:
		return s.executeUnfollow(ctx, rule)
	case types.ActionTypeStory:
		return s.executeStory(ctx, rule)
	case types.ActionTypeDMResponse:
		return s.executeDMResponse(ctx, rule)
	case types.ActionTypeDMSend:
		return s.executeDMSend(ctx, rule)
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidConfig, rule.ActionType)
	}
}

func (s *automationScheduler) executeComment(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	mediaID := rule.ConfigString("media_id")
	if mediaID == "" {
		return nil, fmt.Errorf("%w: comment action requires media_id", ErrInvalidConfig)
	}
	text := s.composeText(ctx, rule, "post_context", func(character *types.Character, promptCtx string, fallbacks []string) ComposedText {
		return s.composer.ComposeComment(ctx, character, promptCtx, fallbacks)
	})
	if text == "" {
		return nil, fmt.Errorf("%w: comment action produced no text and no fallback template", ErrInvalidConfig)
	}
	return s.engager.Comment(ctx, mediaID, text)
}

func (s *automationScheduler) executeLike(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	mediaID := rule.ConfigString("media_id")
	if mediaID == "" {
		return nil, fmt.Errorf("%w: like action requires media_id", ErrInvalidConfig)
	}
	return s.engager.Like(ctx, mediaID)
}

func (s *automationScheduler) executeFollow(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	userID := rule.ConfigString("user_id")
	if userID == "" {
		return nil, fmt.Errorf("%w: follow action requires user_id", ErrInvalidConfig)
	}
	return s.engager.Follow(ctx, userID)
}

func (s *automationScheduler) executeUnfollow(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	userID := rule.ConfigString("user_id")
	if userID == "" {
		return nil, fmt.Errorf("%w: unfollow action requires user_id", ErrInvalidConfig)
	}
	return s.engager.Unfollow(ctx, userID)
}

func (s *automationScheduler) executeStory(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	contentID := rule.ConfigString("content_id")
	if contentID == "" {
		return nil, fmt.Errorf("%w: story action requires content_id", ErrInvalidConfig)
	}
	return s.publisher.PostStory(ctx, contentID, rule.ConfigString("caption"))
}

func (s *automationScheduler) executeDMResponse(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	threadID := rule.ConfigString("thread_id")
	if threadID == "" {
		return nil, fmt.Errorf("%w: dm_response action requires thread_id", ErrInvalidConfig)
	}
	text := s.composeText(ctx, rule, "conversation_context", func(character *types.Character, promptCtx string, fallbacks []string) ComposedText {
		return s.composer.ComposeDM(ctx, character, promptCtx, fallbacks)
	})
	if text == "" {
		return nil, fmt.Errorf("%w: dm_response action produced no text and no fallback template", ErrInvalidConfig)
	}
	return s.engager.SendDM(ctx, threadID, text)
}

func (s *automationScheduler) executeDMSend(ctx context.Context, rule *types.AutomationRule) (map[string]any, error) {
	threadID := rule.ConfigString("thread_id")
	if threadID == "" {
		return nil, fmt.Errorf("%w: dm_send action requires thread_id", ErrInvalidConfig)
	}
	text := s.composeText(ctx, rule, "conversation_context", func(character *types.Character, promptCtx string, fallbacks []string) ComposedText {
		return s.composer.ComposeDM(ctx, character, promptCtx, fallbacks)
	})
	if text == "" {
		text = rule.ConfigString("text")
	}
	if text == "" {
		return nil, fmt.Errorf("%w: dm_send action requires text or templates", ErrInvalidConfig)
	}
	return s.engager.SendDM(ctx, threadID, text)
}

// composeText prefers an explicit configured text, then persona generation
// with template fallback.
func (s *automationScheduler) composeText(ctx context.Context, rule *types.AutomationRule, contextKey string, compose func(*types.Character, string, []string) ComposedText) string {
	if text := rule.ConfigString("text"); text != "" {
		return text
	}
	var character *types.Character
	if s.chars != nil {
		character, _ = s.chars.GetByID(ctx, nil, rule.CharacterID)
	}
	fallbacks := configStringList(rule, "templates")
	composed := compose(character, rule.ConfigString(contextKey), fallbacks)
	return composed.Text
}

func configFloat(rule *types.AutomationRule, key string, def float64) float64 {
	if v, ok := rule.ConfigMap()[key].(float64); ok {
		return v
	}
	return def
}

func configStringList(rule *types.AutomationRule, key string) []string {
	raw, ok := rule.ConfigMap()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
