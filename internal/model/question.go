package model

import (
	"time"

	"gorm.io/datatypes"
)

// Question types served to candidates.
const (
	TypeMCQ    = "mcq"
	TypeCoding = "coding"
	TypeAudio  = "audio"
	TypeVideo  = "video"
)

type Question struct {
	ID              string         `gorm:"type:uuid;primarykey" json:"id"`
	QuestionSetID   string         `json:"question_set_id" gorm:"type:uuid;not null;index"`
	Position        int            `json:"position" gorm:"not null"` // order within the set, assigned at finalize time
	Type            string         `json:"type" gorm:"not null"`
	Skill           string         `json:"skill" gorm:"not null"`
	Difficulty      string         `json:"difficulty" gorm:"not null"`
	Content         datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	TimeLimit       int            `json:"time_limit" gorm:"not null;default:60"`
	PositiveMarking float64        `json:"positive_marking"`
	NegativeMarking float64        `json:"negative_marking"`
	CreatedAt       time.Time      `json:"created_at"`
}
