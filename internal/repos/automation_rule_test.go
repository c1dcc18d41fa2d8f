package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/repos/testutil"
	"github.com/novaluma/novaluma-backend/internal/types"
)

func seedRule(t *testing.T, tx *gorm.DB) *types.AutomationRule {
	t.Helper()
	ctx := context.Background()
	log := testutil.Logger(t)

	user, err := NewUserRepo(tx, log).Create(ctx, tx, &types.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	character, err := NewCharacterRepo(tx, log).Create(ctx, tx, &types.Character{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   "Luna",
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	account, err := NewPlatformAccountRepo(tx, log).Create(ctx, tx, &types.PlatformAccount{
		ID:          uuid.New(),
		CharacterID: character.ID,
		Platform:    types.PlatformInstagram,
		Handle:      "luna.daily",
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("create platform account: %v", err)
	}
	rule, err := NewAutomationRuleRepo(tx, log).Create(ctx, tx, &types.AutomationRule{
		ID:                uuid.New(),
		CharacterID:       character.ID,
		PlatformAccountID: account.ID,
		ActionType:        types.ActionTypeLike,
		IsEnabled:         true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return rule
}

func TestAutomationRuleRecordExecution(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewAutomationRuleRepo(tx, testutil.Logger(t))

	rule := seedRule(t, tx)

	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := repo.RecordExecution(ctx, tx, rule.ID, true, at); err != nil {
		t.Fatalf("record success: %v", err)
	}
	if err := repo.RecordExecution(ctx, tx, rule.ID, false, at.Add(time.Minute)); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, rule.ID)
	if err != nil {
		t.Fatalf("reload rule: %v", err)
	}
	if got.TimesExecuted != 2 || got.SuccessCount != 1 || got.FailureCount != 1 {
		t.Fatalf("stats times=%d success=%d failure=%d, want 2/1/1",
			got.TimesExecuted, got.SuccessCount, got.FailureCount)
	}
	if got.TimesExecuted != got.SuccessCount+got.FailureCount {
		t.Fatal("times_executed diverged from success+failure")
	}
	if got.LastExecutedAt == nil || got.LastExecutedAt.Before(at) {
		t.Fatalf("LastExecutedAt=%v, want >= %v", got.LastExecutedAt, at)
	}
}

func TestAutomationRuleListEnabled(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewAutomationRuleRepo(tx, testutil.Logger(t))

	enabled := seedRule(t, tx)
	disabled := seedRule(t, tx)
	if err := repo.UpdateFields(ctx, tx, disabled.ID, map[string]interface{}{"is_enabled": false}); err != nil {
		t.Fatalf("disable rule: %v", err)
	}

	rules, err := repo.ListEnabled(ctx, tx, 100, 0)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	var sawEnabled, sawDisabled bool
	for _, rule := range rules {
		if rule.ID == enabled.ID {
			sawEnabled = true
		}
		if rule.ID == disabled.ID {
			sawDisabled = true
		}
	}
	if !sawEnabled || sawDisabled {
		t.Fatalf("sawEnabled=%v sawDisabled=%v, want true/false", sawEnabled, sawDisabled)
	}
}

func TestAutomationRuleGetByIDMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	got, err := NewAutomationRuleRepo(tx, testutil.Logger(t)).GetByID(context.Background(), tx, uuid.New())
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Fatalf("got=%+v, want nil for missing rule", got)
	}
}
