package model

import (
	"time"
)

// QuestionSet is a finalized batch of questions with shared timing and expiry
// metadata. It is created once per finalize call and never mutated afterwards.
type QuestionSet struct {
	ID          string     `gorm:"type:uuid;primarykey" json:"id"`
	JobID       *string    `json:"job_id,omitempty" gorm:"index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration" gorm:"not null"` // seconds, sum of per-question time limits
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionSetID"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiryTime  time.Time  `json:"expiry_time" gorm:"not null"`
}
