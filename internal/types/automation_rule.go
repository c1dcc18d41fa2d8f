package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionTypeComment    = "comment"
	ActionTypeLike       = "like"
	ActionTypeFollow     = "follow"
	ActionTypeUnfollow   = "unfollow"
	ActionTypeStory      = "story"
	ActionTypeDMResponse = "dm_response"
	ActionTypeDMSend     = "dm_send"
)

// AutomationRule is a configured, rate-limited action executed against a
// live platform account. Statistics invariant: TimesExecuted ==
// SuccessCount + FailureCount after every attempt that reaches dispatch.
type AutomationRule struct {
	ID                   uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CharacterID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"character_id"`
	Character            *Character       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CharacterID;references:ID" json:"character,omitempty"`
	PlatformAccountID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"platform_account_id"`
	PlatformAccount      *PlatformAccount `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlatformAccountID;references:ID" json:"platform_account,omitempty"`
	ActionType           string           `gorm:"not null;column:action_type" json:"action_type"`
	ActionConfig         datatypes.JSON   `gorm:"type:jsonb;column:action_config" json:"action_config,omitempty"`
	IsEnabled            bool             `gorm:"not null;default:true;column:is_enabled" json:"is_enabled"`
	CooldownMinutes      int              `gorm:"not null;default:0;column:cooldown_minutes" json:"cooldown_minutes"`
	MaxExecutionsPerDay  *int             `gorm:"column:max_executions_per_day" json:"max_executions_per_day,omitempty"`
	MaxExecutionsPerWeek *int             `gorm:"column:max_executions_per_week" json:"max_executions_per_week,omitempty"`
	TimesExecuted        int64            `gorm:"not null;default:0;column:times_executed" json:"times_executed"`
	SuccessCount         int64            `gorm:"not null;default:0;column:success_count" json:"success_count"`
	FailureCount         int64            `gorm:"not null;default:0;column:failure_count" json:"failure_count"`
	LastExecutedAt       *time.Time       `gorm:"column:last_executed_at" json:"last_executed_at,omitempty"`
	CreatedAt            time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (AutomationRule) TableName() string { return "automation_rule" }

// ConfigMap decodes ActionConfig; a broken or empty payload decodes to an
// empty map rather than an error.
func (r *AutomationRule) ConfigMap() map[string]any {
	out := map[string]any{}
	if len(r.ActionConfig) == 0 {
		return out
	}
	_ = json.Unmarshal(r.ActionConfig, &out)
	return out
}

// ConfigString returns a string field from ActionConfig, "" when absent.
func (r *AutomationRule) ConfigString(key string) string {
	v, _ := r.ConfigMap()[key].(string)
	return v
}
