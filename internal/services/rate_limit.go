package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
)

// ExecutionWindowStore tracks recent rule executions so daily/weekly caps
// count a true rolling window instead of comparing the lifetime counter
// against a single timestamp.
type ExecutionWindowStore interface {
	Record(ctx context.Context, ruleID uuid.UUID, at time.Time) error
	CountSince(ctx context.Context, ruleID uuid.UUID, since time.Time) (int, error)
	PruneBefore(ctx context.Context, ruleID uuid.UUID, before time.Time) error
}

type RateLimitGuard interface {
	// CanExecute reports whether the rule may run now and, when blocked, why.
	CanExecute(ctx context.Context, rule *types.AutomationRule, now time.Time) (bool, string)
}

type rateLimitGuard struct {
	log     *logger.Logger
	windows ExecutionWindowStore
}

func NewRateLimitGuard(baseLog *logger.Logger, windows ExecutionWindowStore) RateLimitGuard {
	return &rateLimitGuard{
		log:     baseLog.With("service", "RateLimitGuard"),
		windows: windows,
	}
}

func (g *rateLimitGuard) CanExecute(ctx context.Context, rule *types.AutomationRule, now time.Time) (bool, string) {
	if rule == nil {
		return false, "rule is missing"
	}
	if !rule.IsEnabled {
		return false, "rule is disabled"
	}

	if rule.LastExecutedAt != nil && rule.CooldownMinutes > 0 {
		cooldownEnd := rule.LastExecutedAt.Add(time.Duration(rule.CooldownMinutes) * time.Minute)
		if now.Before(cooldownEnd) {
			return false, fmt.Sprintf("cooldown active until %s", cooldownEnd.UTC().Format(time.RFC3339))
		}
	}

	if rule.MaxExecutionsPerDay != nil {
		if blocked := g.windowBlocked(ctx, rule, now, 24*time.Hour, *rule.MaxExecutionsPerDay); blocked {
			return false, "daily execution limit reached"
		}
	}
	if rule.MaxExecutionsPerWeek != nil {
		if blocked := g.windowBlocked(ctx, rule, now, 7*24*time.Hour, *rule.MaxExecutionsPerWeek); blocked {
			return false, "weekly execution limit reached"
		}
	}

	return true, "OK"
}

func (g *rateLimitGuard) windowBlocked(ctx context.Context, rule *types.AutomationRule, now time.Time, window time.Duration, limit int) bool {
	if limit <= 0 {
		return true
	}
	if g.windows != nil {
		count, err := g.windows.CountSince(ctx, rule.ID, now.Add(-window))
		if err == nil {
			return count >= limit
		}
		g.log.Warn("Execution window store unavailable, falling back to last-execution approximation",
			"rule_id", rule.ID, "error", err)
	}
	// Fallback: the legacy approximation keyed off the last execution time.
	// Only correct when the rule runs at most once per window.
	if rule.LastExecutedAt == nil {
		return false
	}
	return now.Sub(*rule.LastExecutedAt) < window && rule.TimesExecuted >= int64(limit)
}
