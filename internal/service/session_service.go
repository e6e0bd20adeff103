package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ptdat/skillgate/internal/dto"
	"github.com/ptdat/skillgate/internal/model"
	"github.com/ptdat/skillgate/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrQuestionSetExpired  = errors.New("question set has expired")
)

var candidateQuestionTypes = []string{model.TypeMCQ, model.TypeCoding, model.TypeAudio, model.TypeVideo}

// questionContent is the shape of the opaque content payload as far as the
// candidate projection cares; unknown keys are simply not surfaced.
type questionContent struct {
	Question             *string  `json:"question"`
	Options              []string `json:"options"`
	CorrectAnswer        *string  `json:"correct_answer"`
	PromptText           *string  `json:"prompt_text"`
	MediaURL             *string  `json:"media_url"`
	Rubric               *string  `json:"rubric"`
	SuggestedTimeSeconds *int     `json:"suggested_time_seconds"`
}

// SessionService covers the candidate side of a test: starting it, recording
// proctoring signals and media, and scoring submitted sections.
type SessionService interface {
	StartTest(setID string) (*dto.StartTestResponse, error)
	SaveViolations(req dto.SaveViolationsRequest) error
	SaveRecording(candidateID, questionSetID string, audioURL, videoURL *string, qaRaw string) error
	SubmitSection(ctx context.Context, req dto.SubmitSectionRequest) ([]dto.EvaluationResult, error)
}

type sessionService struct {
	setRepo      repository.QuestionSetRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.TestAttemptRepository
	llm          GeminiLLMService
	now          func() time.Time
}

func NewSessionService(
	setRepo repository.QuestionSetRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.TestAttemptRepository,
	llm GeminiLLMService,
) SessionService {
	return &sessionService{
		setRepo:      setRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		llm:          llm,
		now:          time.Now,
	}
}

func (s *sessionService) StartTest(setID string) (*dto.StartTestResponse, error) {
	set, err := s.setRepo.FindByID(setID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionSetNotFound
		}
		return nil, fmt.Errorf("error loading question set %s: %w", setID, err)
	}
	if s.now().After(set.ExpiryTime) {
		return nil, ErrQuestionSetExpired
	}

	questions, err := s.questionRepo.FindBySetIDAndTypes(setID, candidateQuestionTypes)
	if err != nil {
		log.Error().Err(err).Str("question_set_id", setID).Msg("StartTest: failed to fetch questions")
		return nil, fmt.Errorf("error fetching questions for set %s: %w", setID, err)
	}

	projected := make([]dto.CandidateQuestion, 0, len(questions))
	for _, q := range questions {
		projected = append(projected, projectQuestion(q))
	}
	return &dto.StartTestResponse{QuestionSetID: setID, Questions: projected}, nil
}

// projectQuestion reshapes a stored question for the candidate. The correct
// answer is stripped for every type except mcq, whose answer the client echoes
// back on section submission.
func projectQuestion(q model.Question) dto.CandidateQuestion {
	var content questionContent
	if err := json.Unmarshal(q.Content, &content); err != nil {
		log.Warn().Err(err).Str("question_id", q.ID).Msg("Question content payload is not valid JSON")
	}

	out := dto.CandidateQuestion{
		ID:                   q.ID,
		QuestionID:           q.ID,
		Type:                 q.Type,
		Skill:                q.Skill,
		Difficulty:           q.Difficulty,
		TimeLimit:            q.TimeLimit,
		PositiveMarking:      q.PositiveMarking,
		NegativeMarking:      q.NegativeMarking,
		Question:             content.Question,
		Options:              content.Options,
		PromptText:           content.PromptText,
		MediaURL:             content.MediaURL,
		Rubric:               content.Rubric,
		SuggestedTimeSeconds: content.SuggestedTimeSeconds,
	}
	if q.Type == model.TypeMCQ && content.CorrectAnswer != nil {
		out.CorrectAnswer = *content.CorrectAnswer
	}
	return out
}

func (s *sessionService) SaveViolations(req dto.SaveViolationsRequest) error {
	attempt := model.TestAttempt{
		CandidateID:    req.CandidateID,
		QuestionSetID:  req.QuestionSetID,
		TabSwitches:    req.TabSwitches,
		Inactivities:   req.Inactivities,
		FaceNotVisible: req.FaceNotVisible,
	}
	if err := s.attemptRepo.UpsertViolations(&attempt); err != nil {
		log.Error().Err(err).Str("candidate_id", req.CandidateID).Str("question_set_id", req.QuestionSetID).Msg("Failed to save violations")
		return fmt.Errorf("error saving violations: %w", err)
	}
	return nil
}

func (s *sessionService) SaveRecording(candidateID, questionSetID string, audioURL, videoURL *string, qaRaw string) error {
	attempt := model.TestAttempt{
		CandidateID:   candidateID,
		QuestionSetID: questionSetID,
		AudioURL:      audioURL,
		VideoURL:      videoURL,
		QAData:        parseQAData(qaRaw),
	}
	if err := s.attemptRepo.UpsertRecording(&attempt); err != nil {
		log.Error().Err(err).Str("candidate_id", candidateID).Str("question_set_id", questionSetID).Msg("Failed to persist recording")
		return fmt.Errorf("error saving recording: %w", err)
	}
	return nil
}

// parseQAData tolerates a missing or malformed question/answer log; the merge
// upsert needs a valid jsonb array either way.
func parseQAData(raw string) []byte {
	if raw == "" {
		return []byte("[]")
	}
	var entries []interface{}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn().Str("qa_data", raw).Msg("Unparseable qa_data, storing empty log")
		return []byte("[]")
	}
	return []byte(raw)
}

func (s *sessionService) SubmitSection(ctx context.Context, req dto.SubmitSectionRequest) ([]dto.EvaluationResult, error) {
	evaluations := make([]dto.EvaluationResult, 0, len(req.Responses))
	for _, r := range req.Responses {
		result := dto.EvaluationResult{
			QuestionID:      r.QuestionID,
			CandidateAnswer: r.CandidateAnswer,
			CorrectAnswer:   r.CorrectAnswer,
			SectionName:     req.SectionName,
			EvaluatedAt:     s.now().UTC(),
		}

		switch r.QuestionType {
		case model.TypeMCQ, model.TypeCoding:
			eval, err := s.llm.EvaluateAnswer(ctx, r.QuestionType, r.QuestionText, r.CorrectAnswer, r.CandidateAnswer)
			if err != nil {
				// Per-item fallback: a broken evaluator downgrades this answer
				// to zero instead of failing the whole section.
				log.Warn().Err(err).Str("question_id", r.QuestionID).Msg("Evaluator failed for response")
				zero := 0.0
				result.Score = &zero
				result.IsCorrect = false
				result.Feedback = "Evaluation failed"
			} else {
				score := eval.Score
				result.Score = &score
				result.IsCorrect = eval.IsCorrect
				result.Feedback = eval.Feedback
			}
		default:
			result.Score = nil
			result.IsCorrect = false
			result.Feedback = "Not evaluated"
		}
		evaluations = append(evaluations, result)
	}

	encoded, err := json.Marshal(evaluations)
	if err != nil {
		return nil, fmt.Errorf("error encoding section results: %w", err)
	}
	if err := s.attemptRepo.AppendResults(req.CandidateID, req.QuestionSetID, encoded); err != nil {
		log.Error().Err(err).Str("candidate_id", req.CandidateID).Str("question_set_id", req.QuestionSetID).Msg("Failed to store section results")
		return nil, fmt.Errorf("error storing section results: %w", err)
	}

	log.Info().Str("candidate_id", req.CandidateID).Str("section", req.SectionName).Int("responses", len(evaluations)).Msg("Section stored")
	return evaluations, nil
}
