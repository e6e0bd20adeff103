package model

import (
	"time"

	"gorm.io/datatypes"
)

// TestAttempt accumulates everything one candidate produces against one
// question set: proctoring counters, media URLs, the question/answer log and
// per-section evaluation results. There is a single row per
// (candidate, question set) pair; every route upserts into it.
//
// Counters are last-write-wins. QAData and ResultsData are jsonb arrays that
// only ever grow: submissions append-merge, they never replace.
type TestAttempt struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CandidateID    string         `json:"candidate_id" gorm:"not null;uniqueIndex:idx_attempt_candidate_set"`
	QuestionSetID  string         `json:"question_set_id" gorm:"type:uuid;not null;uniqueIndex:idx_attempt_candidate_set"`
	TabSwitches    int            `json:"tab_switches"`
	Inactivities   int            `json:"inactivities"`
	FaceNotVisible int            `json:"face_not_visible"`
	AudioURL       *string        `json:"audio_url,omitempty"`
	VideoURL       *string        `json:"video_url,omitempty"`
	QAData         datatypes.JSON `json:"qa_data,omitempty" gorm:"type:jsonb;default:'[]'"`
	ResultsData    datatypes.JSON `json:"results_data,omitempty" gorm:"type:jsonb;default:'[]'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
