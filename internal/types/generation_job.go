package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobKindImage     = "image"
	JobKindVideo     = "video"
	JobKindModel3D   = "model3d"
	JobKindAudioSync = "audio_sync"
)

const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCancelled = "cancelled"
	JobStatusFailed    = "failed"
	JobStatusSucceeded = "succeeded"
)

// GenerationJob is the bookkeeping record for image/video/3D/audio-sync
// generation. Cancellation is cooperative: RequestCancel sets
// CancelRequested and the worker acknowledges it at poll boundaries.
type GenerationJob struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CharacterID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"character_id"`
	Character       *Character     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CharacterID;references:ID" json:"character,omitempty"`
	Kind            string         `gorm:"not null;index;column:kind" json:"kind"`
	Status          string         `gorm:"not null;default:queued;index;column:status" json:"status"`
	Params          datatypes.JSON `gorm:"type:jsonb;column:params" json:"params,omitempty"`
	Error           string         `gorm:"column:error" json:"error,omitempty"`
	CancelRequested bool           `gorm:"not null;default:false;column:cancel_requested" json:"cancel_requested"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	StartedAt       *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt      *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (GenerationJob) TableName() string { return "generation_job" }

// Terminal reports whether the job can no longer change state.
func (j *GenerationJob) Terminal() bool {
	switch j.Status {
	case JobStatusCancelled, JobStatusFailed, JobStatusSucceeded:
		return true
	}
	return false
}
