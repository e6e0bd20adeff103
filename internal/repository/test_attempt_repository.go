package repository

import (
	"github.com/ptdat/skillgate/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TestAttemptRepository maintains the single accumulating row per
// (candidate, question set). All writes are atomic insert-or-update
// statements; concurrent submissions for the same pair serialize on the
// row-level lock the upsert takes.
type TestAttemptRepository interface {
	// UpsertViolations replaces the proctoring counters with the latest
	// client-reported cumulative values (last-write-wins).
	UpsertViolations(attempt *model.TestAttempt) error
	// UpsertRecording stores a media URL and append-merges the submitted
	// question/answer log into qa_data. Existing URLs survive unless the new
	// row carries one.
	UpsertRecording(attempt *model.TestAttempt) error
	// AppendResults append-merges section evaluation entries into
	// results_data. Entries are never deduplicated.
	AppendResults(candidateID, questionSetID string, results datatypes.JSON) error
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

var attemptConflictKey = []clause.Column{
	{Name: "candidate_id"},
	{Name: "question_set_id"},
}

func (r *testAttemptRepository) UpsertViolations(attempt *model.TestAttempt) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   attemptConflictKey,
		DoUpdates: clause.AssignmentColumns([]string{"tab_switches", "inactivities", "face_not_visible", "updated_at"}),
	}).Create(attempt).Error
}

func (r *testAttemptRepository) UpsertRecording(attempt *model.TestAttempt) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: attemptConflictKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"audio_url":  gorm.Expr("COALESCE(excluded.audio_url, test_attempts.audio_url)"),
			"video_url":  gorm.Expr("COALESCE(excluded.video_url, test_attempts.video_url)"),
			"qa_data":    gorm.Expr("COALESCE(test_attempts.qa_data, '[]'::jsonb) || COALESCE(excluded.qa_data, '[]'::jsonb)"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(attempt).Error
}

func (r *testAttemptRepository) AppendResults(candidateID, questionSetID string, results datatypes.JSON) error {
	attempt := model.TestAttempt{
		CandidateID:   candidateID,
		QuestionSetID: questionSetID,
		ResultsData:   results,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: attemptConflictKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"results_data": gorm.Expr("COALESCE(test_attempts.results_data, '[]'::jsonb) || excluded.results_data"),
			"updated_at":   gorm.Expr("now()"),
		}),
	}).Create(&attempt).Error
}
