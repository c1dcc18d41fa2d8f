package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlatformAccount binds a character to a live social-platform account.
type PlatformAccount struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CharacterID uuid.UUID      `gorm:"type:uuid;not null;index" json:"character_id"`
	Character   *Character     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CharacterID;references:ID" json:"character,omitempty"`
	Platform    string         `gorm:"not null;index;column:platform" json:"platform"`
	Handle      string         `gorm:"not null;column:handle" json:"handle"`
	AccessToken string         `gorm:"column:access_token" json:"-"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PlatformAccount) TableName() string { return "platform_account" }
