package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersonalityTraits drive generated content tone and simulated social
// behavior. All float traits are in [0,1].
type PersonalityTraits struct {
	Extroversion       float64        `gorm:"column:extroversion" json:"extroversion"`
	Creativity         float64        `gorm:"column:creativity" json:"creativity"`
	Humor              float64        `gorm:"column:humor" json:"humor"`
	Professionalism    float64        `gorm:"column:professionalism" json:"professionalism"`
	Authenticity       float64        `gorm:"column:authenticity" json:"authenticity"`
	CommunicationStyle string         `gorm:"column:communication_style" json:"communication_style,omitempty"`
	PreferredTopics    datatypes.JSON `gorm:"type:jsonb;column:preferred_topics" json:"preferred_topics,omitempty"`
}

type Character struct {
	ID               uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name             string             `gorm:"not null;column:name" json:"name"`
	Bio              string             `gorm:"column:bio" json:"bio,omitempty"`
	Location         string             `gorm:"column:location" json:"location,omitempty"`
	Interests        datatypes.JSON     `gorm:"type:jsonb;column:interests" json:"interests,omitempty"`
	Personality      *PersonalityTraits `gorm:"embedded;embeddedPrefix:personality_" json:"personality,omitempty"`
	AppearancePrompt string             `gorm:"column:appearance_prompt" json:"appearance_prompt,omitempty"`
	AvatarURL        string             `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	CreatedAt        time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (Character) TableName() string { return "character" }

// InterestsList decodes the stored interests; a broken or empty payload
// decodes to nil rather than an error.
func (c *Character) InterestsList() []string {
	return decodeStringList(c.Interests)
}

func (p *PersonalityTraits) PreferredTopicsList() []string {
	if p == nil {
		return nil
	}
	return decodeStringList(p.PreferredTopics)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func StringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
