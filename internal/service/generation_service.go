package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/ptdat/skillgate/internal/dto"
	"github.com/rs/zerolog/log"
)

const defaultMCQOptions = 4

// GenerationService orchestrates question generation: one LLM call per
// requested question, skills in request order, types in sorted order so a
// given request always produces the same sequence.
type GenerationService interface {
	GenerateQuestions(ctx context.Context, req dto.GenerateTestRequest) ([]dto.GeneratedQuestion, error)
}

type generationService struct {
	llm GeminiLLMService
}

func NewGenerationService(llm GeminiLLMService) GenerationService {
	return &generationService{llm: llm}
}

func (s *generationService) GenerateQuestions(ctx context.Context, req dto.GenerateTestRequest) ([]dto.GeneratedQuestion, error) {
	optionCount := defaultMCQOptions
	if req.GlobalSettings != nil && req.GlobalSettings.MCQOptions > 0 {
		optionCount = req.GlobalSettings.MCQOptions
	}

	var all []dto.GeneratedQuestion
	for _, skill := range req.Skills {
		difficulty := skill.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}

		types := make([]string, 0, len(skill.Counts))
		for qtype := range skill.Counts {
			types = append(types, qtype)
		}
		sort.Strings(types)

		for _, qtype := range types {
			for i := 0; i < skill.Counts[qtype]; i++ {
				content, err := s.llm.GenerateQuestion(ctx, skill.Name, difficulty, qtype, optionCount)
				if err != nil {
					// No partial-success policy: the whole batch is discarded.
					log.Error().Err(err).Str("skill", skill.Name).Str("type", qtype).Msg("Question generation failed")
					return nil, fmt.Errorf("generating %s question for skill %q: %w", qtype, skill.Name, err)
				}
				all = append(all, dto.GeneratedQuestion{
					QuestionID: uuid.NewString(),
					Skill:      skill.Name,
					Type:       qtype,
					Difficulty: difficulty,
					Content:    content,
				})
			}
		}
	}

	log.Info().Int("count", len(all)).Msg("Question generation completed")
	return all, nil
}
