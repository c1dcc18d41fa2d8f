package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
	PostStatusDeleted   = "deleted"
)

const (
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTelegram  = "telegram"
	PlatformOnlyFans  = "onlyfans"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
)

// Post counters are only ever incremented by the simulation core.
type Post struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CharacterID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"character_id"`
	Character            *Character     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CharacterID;references:ID" json:"character,omitempty"`
	Platform             string         `gorm:"not null;index;column:platform" json:"platform"`
	PostType             string         `gorm:"not null;column:post_type" json:"post_type"`
	Status               string         `gorm:"not null;default:draft;index;column:status" json:"status"`
	Caption              string         `gorm:"column:caption" json:"caption,omitempty"`
	MediaURL             string         `gorm:"column:media_url" json:"media_url,omitempty"`
	ExternalID           string         `gorm:"column:external_id" json:"external_id,omitempty"`
	PublishedAt          *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	LikesCount           int64          `gorm:"not null;default:0;column:likes_count" json:"likes_count"`
	CommentsCount        int64          `gorm:"not null;default:0;column:comments_count" json:"comments_count"`
	SharesCount          int64          `gorm:"not null;default:0;column:shares_count" json:"shares_count"`
	ViewsCount           int64          `gorm:"not null;default:0;column:views_count" json:"views_count"`
	LastEngagementSyncAt *time.Time     `gorm:"column:last_engagement_sync_at" json:"last_engagement_sync_at,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Post) TableName() string { return "post" }

// Engageable reports whether simulated engagement may target this post.
func (p *Post) Engageable() bool {
	return p != nil && p.Status == PostStatusPublished && p.PublishedAt != nil
}
