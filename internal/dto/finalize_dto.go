package dto

import "time"

// FinalizeQuestion is one reviewed question to persist. QuestionID is kept
// when the client echoes back a generated id, otherwise one is assigned.
type FinalizeQuestion struct {
	QuestionID      string                 `json:"question_id"`
	Type            string                 `json:"type"`
	Skill           string                 `json:"skill"`
	Difficulty      string                 `json:"difficulty"`
	Content         map[string]interface{} `json:"content"`
	TimeLimit       *int                   `json:"time_limit"`
	PositiveMarking float64                `json:"positive_marking"`
	NegativeMarking float64                `json:"negative_marking"`
}

type FinalizeTestRequest struct {
	Questions       []FinalizeQuestion `json:"questions" binding:"required"`
	TestTitle       string             `json:"test_title"`
	TestDescription string             `json:"test_description"`
	JobID           *string            `json:"job_id"`
	EndDate         string             `json:"end_date"` // "2006-01-02"
	EndTime         string             `json:"end_time"` // 12-hour clock, e.g. "02:30 PM"
}

type FinalizeTestResponse struct {
	Status        string    `json:"status"`
	QuestionSetID string    `json:"question_set_id"`
	TestTitle     string    `json:"test_title"`
	ExpiryTime    time.Time `json:"expiry_time"`
	Message       string    `json:"message"`
}
