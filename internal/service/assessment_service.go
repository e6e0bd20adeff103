package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/ptdat/skillgate/internal/dto"
	"github.com/ptdat/skillgate/internal/model"
	"github.com/ptdat/skillgate/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultTimeLimitSeconds = 60
	defaultExpiryWindow     = 48 * time.Hour
	expiryLayout            = "2006-01-02 03:04 PM"
)

// ValidationError marks request-shape failures so the controller can answer
// 400 instead of 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// AssessmentService covers the authoring side: persisting a reviewed question
// batch as an immutable question set, and reading it back.
type AssessmentService interface {
	FinalizeTest(req dto.FinalizeTestRequest) (*dto.FinalizeTestResponse, error)
	GetQuestionSetQuestions(setID string) (*dto.QuestionSetQuestionsResponse, error)
}

type assessmentService struct {
	setRepo      repository.QuestionSetRepository
	questionRepo repository.QuestionRepository
	transact     func(fn func(tx *gorm.DB) error) error
}

func NewAssessmentService(setRepo repository.QuestionSetRepository, questionRepo repository.QuestionRepository, db *gorm.DB) AssessmentService {
	return &assessmentService{
		setRepo:      setRepo,
		questionRepo: questionRepo,
		transact: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
	}
}

func (s *assessmentService) FinalizeTest(req dto.FinalizeTestRequest) (*dto.FinalizeTestResponse, error) {
	if len(req.Questions) == 0 {
		return nil, validationErrorf("Questions array is empty")
	}

	for i, q := range req.Questions {
		var missing []string
		if q.Type == "" {
			missing = append(missing, "type")
		}
		if q.Skill == "" {
			missing = append(missing, "skill")
		}
		if q.Difficulty == "" {
			missing = append(missing, "difficulty")
		}
		if q.Content == nil {
			missing = append(missing, "content")
		}
		if len(missing) > 0 {
			return nil, validationErrorf("Question %d missing required fields: %v", i+1, missing)
		}
	}

	title := req.TestTitle
	if title == "" {
		title = "Untitled Test"
	}

	totalDuration := 0
	for _, q := range req.Questions {
		totalDuration += timeLimitOrDefault(q.TimeLimit)
	}

	createdAt := time.Now().UTC()
	expiryTime := resolveExpiry(createdAt, req.EndDate, req.EndTime)

	set := model.QuestionSet{
		ID:          uuid.NewString(),
		JobID:       req.JobID,
		Title:       title,
		Description: req.TestDescription,
		Duration:    totalDuration,
		CreatedAt:   createdAt,
		ExpiryTime:  expiryTime,
	}

	err := s.transact(func(tx *gorm.DB) error {
		setRepo := s.setRepo.WithTx(tx)
		questionRepo := s.questionRepo.WithTx(tx)

		if err := setRepo.Create(&set); err != nil {
			return fmt.Errorf("failed to create question set: %w", err)
		}
		for i, q := range req.Questions {
			content, err := json.Marshal(q.Content)
			if err != nil {
				return fmt.Errorf("failed to encode content for question %d: %w", i+1, err)
			}
			questionID := q.QuestionID
			if questionID == "" {
				questionID = uuid.NewString()
			}
			question := model.Question{
				ID:              questionID,
				QuestionSetID:   set.ID,
				Position:        i,
				Type:            q.Type,
				Skill:           q.Skill,
				Difficulty:      q.Difficulty,
				Content:         content,
				TimeLimit:       timeLimitOrDefault(q.TimeLimit),
				PositiveMarking: q.PositiveMarking,
				NegativeMarking: q.NegativeMarking,
				CreatedAt:       createdAt,
			}
			if err := questionRepo.Create(&question); err != nil {
				return fmt.Errorf("failed to create question %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("FinalizeTest: transaction failed, rolled back")
		return nil, err
	}

	log.Info().Str("question_set_id", set.ID).Int("questions", len(req.Questions)).Int("duration", totalDuration).Msg("Test finalized")
	return &dto.FinalizeTestResponse{
		Status:        "success",
		QuestionSetID: set.ID,
		TestTitle:     title,
		ExpiryTime:    expiryTime,
		Message:       fmt.Sprintf("Test '%s' finalized and stored successfully", title),
	}, nil
}

func (s *assessmentService) GetQuestionSetQuestions(setID string) (*dto.QuestionSetQuestionsResponse, error) {
	if _, err := s.setRepo.FindByID(setID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionSetNotFound
		}
		return nil, fmt.Errorf("error loading question set %s: %w", setID, err)
	}
	questions, err := s.questionRepo.FindBySetID(setID)
	if err != nil {
		log.Error().Err(err).Str("question_set_id", setID).Msg("Failed to fetch questions for set")
		return nil, fmt.Errorf("error fetching questions for set %s: %w", setID, err)
	}

	details := make([]dto.QuestionDetail, len(questions))
	for i := range questions {
		if err := copier.Copy(&details[i], &questions[i]); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
	}
	return &dto.QuestionSetQuestionsResponse{QuestionSetID: setID, Questions: details}, nil
}

func timeLimitOrDefault(limit *int) int {
	if limit == nil || *limit <= 0 {
		return defaultTimeLimitSeconds
	}
	return *limit
}

// resolveExpiry combines the supplied end date with a 12-hour-clock end time.
// Absence of either field or any parse failure falls back to 48 hours after
// creation.
func resolveExpiry(createdAt time.Time, endDate, endTime string) time.Time {
	if endDate == "" || endTime == "" {
		return createdAt.Add(defaultExpiryWindow)
	}
	expiry, err := time.Parse(expiryLayout, endDate+" "+endTime)
	if err != nil {
		log.Warn().Str("end_date", endDate).Str("end_time", endTime).Msg("Could not parse end date/time, defaulting expiry to 48h")
		return createdAt.Add(defaultExpiryWindow)
	}
	return expiry
}
