package dto

import "time"

// CandidateQuestion is the projection served when a candidate starts a test.
// Content fields are flattened out of the stored payload; correct_answer is
// only populated for mcq questions (the client grades nothing itself, but the
// original contract echoes it back on section submission).
type CandidateQuestion struct {
	ID                   string      `json:"id"`
	QuestionID           string      `json:"question_id"`
	Type                 string      `json:"type"`
	Skill                string      `json:"skill"`
	Difficulty           string      `json:"difficulty"`
	TimeLimit            int         `json:"time_limit"`
	PositiveMarking      float64     `json:"positive_marking"`
	NegativeMarking      float64     `json:"negative_marking"`
	Question             *string     `json:"question"`
	Options              []string    `json:"options"`
	CorrectAnswer        interface{} `json:"correct_answer"`
	PromptText           *string     `json:"prompt_text"`
	MediaURL             *string     `json:"media_url"`
	Rubric               *string     `json:"rubric"`
	SuggestedTimeSeconds *int        `json:"suggested_time_seconds"`
}

type StartTestResponse struct {
	QuestionSetID string              `json:"question_set_id"`
	Questions     []CandidateQuestion `json:"questions"`
}

type SaveViolationsRequest struct {
	CandidateID    string `json:"candidate_id" binding:"required"`
	QuestionSetID  string `json:"question_set_id" binding:"required"`
	TabSwitches    int    `json:"tab_switches"`
	Inactivities   int    `json:"inactivities"`
	FaceNotVisible int    `json:"face_not_visible"`
}

type UploadResponse struct {
	Status      string `json:"status"`
	CandidateID string `json:"candidate_id"`
	AudioURL    string `json:"audio_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// SectionAnswer is one candidate response inside a section submission.
type SectionAnswer struct {
	QuestionID      string `json:"question_id"`
	QuestionType    string `json:"question_type"`
	QuestionText    string `json:"question_text"`
	CorrectAnswer   string `json:"correct_answer"`
	CandidateAnswer string `json:"candidate_answer"`
}

type SubmitSectionRequest struct {
	CandidateID   string          `json:"candidate_id" binding:"required"`
	QuestionSetID string          `json:"question_set_id" binding:"required"`
	SectionName   string          `json:"section_name"`
	Responses     []SectionAnswer `json:"responses"`
}

// Evaluation is what the external evaluator returns for a single answer.
type Evaluation struct {
	Score     float64 `json:"score"`
	IsCorrect bool    `json:"is_correct"`
	Feedback  string  `json:"feedback"`
}

// EvaluationResult is the stored (and echoed) outcome for one response.
// Score is nil for types the evaluator does not handle.
type EvaluationResult struct {
	QuestionID      string    `json:"question_id"`
	CandidateAnswer string    `json:"candidate_answer"`
	CorrectAnswer   string    `json:"correct_answer"`
	SectionName     string    `json:"section_name"`
	Score           *float64  `json:"score"`
	IsCorrect       bool      `json:"is_correct"`
	Feedback        string    `json:"feedback"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

type SubmitSectionResponse struct {
	Message     string             `json:"message"`
	Evaluations []EvaluationResult `json:"evaluations"`
}
