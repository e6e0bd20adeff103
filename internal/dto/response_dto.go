package dto

import (
	"time"

	"gorm.io/datatypes"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// QuestionDetail is the authoring view of a persisted question, content
// included. Served by the question-set listing, not to candidates.
type QuestionDetail struct {
	ID              string         `json:"id"`
	QuestionSetID   string         `json:"question_set_id"`
	Position        int            `json:"position"`
	Type            string         `json:"type"`
	Skill           string         `json:"skill"`
	Difficulty      string         `json:"difficulty"`
	Content         datatypes.JSON `json:"content"`
	TimeLimit       int            `json:"time_limit"`
	PositiveMarking float64        `json:"positive_marking"`
	NegativeMarking float64        `json:"negative_marking"`
	CreatedAt       time.Time      `json:"created_at"`
}

type QuestionSetQuestionsResponse struct {
	QuestionSetID string           `json:"question_set_id"`
	Questions     []QuestionDetail `json:"questions"`
}
