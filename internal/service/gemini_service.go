package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/ptdat/skillgate/config"
	"github.com/ptdat/skillgate/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiLLMService is the adapter around the external language model: it
// produces question content during authoring and scores candidate answers
// during submission.
type GeminiLLMService interface {
	GenerateQuestion(ctx context.Context, skill, difficulty, qtype string, optionCount int) (map[string]interface{}, error)
	EvaluateAnswer(ctx context.Context, qtype, questionText, correctAnswer, candidateAnswer string) (*dto.Evaluation, error)
}

type geminiLLMService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiLLMService{client: model, cfg: cfg}, nil
}

func (s *geminiLLMService) GenerateQuestion(ctx context.Context, skill, difficulty, qtype string, optionCount int) (map[string]interface{}, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var prompt strings.Builder
	prompt.WriteString("You are an expert technical interviewer creating questions for a skills-assessment platform.\n")
	prompt.WriteString(fmt.Sprintf("Create ONE %s-difficulty assessment question for the skill %q.\n\n", difficulty, skill))

	switch qtype {
	case "mcq":
		prompt.WriteString(fmt.Sprintf("The question is multiple-choice with exactly %d options.\n", optionCount))
		prompt.WriteString("Respond with ONLY a JSON object of this shape:\n")
		prompt.WriteString(`{"question": "...", "options": ["...", "..."], "correct_answer": "..."}` + "\n")
		prompt.WriteString("correct_answer must be one of the options verbatim.\n")
	case "coding":
		prompt.WriteString("The question is a coding exercise the candidate solves in an editor.\n")
		prompt.WriteString("Respond with ONLY a JSON object of this shape:\n")
		prompt.WriteString(`{"question": "...", "rubric": "what a correct solution must demonstrate"}` + "\n")
	case "audio", "video":
		prompt.WriteString(fmt.Sprintf("The candidate answers by recording a short %s response.\n", qtype))
		prompt.WriteString("Respond with ONLY a JSON object of this shape:\n")
		prompt.WriteString(`{"prompt_text": "...", "rubric": "...", "suggested_time_seconds": 120}` + "\n")
	default:
		return nil, fmt.Errorf("unsupported question type for generation: %s", qtype)
	}
	prompt.WriteString("\nDo not wrap the JSON in markdown fences or add commentary.")

	raw, err := s.generateText(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var content map[string]interface{}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &content); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse generated question content")
		return nil, fmt.Errorf("could not parse generated question content: %w", err)
	}
	return content, nil
}

func (s *geminiLLMService) EvaluateAnswer(ctx context.Context, qtype, questionText, correctAnswer, candidateAnswer string) (*dto.Evaluation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var prompt strings.Builder
	prompt.WriteString("You are grading a candidate's answer on a skills-assessment platform.\n\n")
	prompt.WriteString(fmt.Sprintf("Question type: %s\n", qtype))
	prompt.WriteString(fmt.Sprintf("Question:\n---\n%s\n---\n", questionText))
	if correctAnswer != "" {
		prompt.WriteString(fmt.Sprintf("Reference answer:\n---\n%s\n---\n", correctAnswer))
	}
	prompt.WriteString(fmt.Sprintf("Candidate answer:\n---\n%s\n---\n\n", candidateAnswer))
	switch qtype {
	case "mcq":
		prompt.WriteString("Score 1 if the candidate answer matches the reference answer, otherwise 0.\n")
	case "coding":
		prompt.WriteString("Score from 0 to 10 for correctness, completeness and code quality; is_correct is true when the solution would work.\n")
	}
	prompt.WriteString("Respond with ONLY a JSON object of this shape:\n")
	prompt.WriteString(`{"score": 0, "is_correct": false, "feedback": "one or two sentences"}` + "\n")
	prompt.WriteString("Do not wrap the JSON in markdown fences or add commentary.")

	raw, err := s.generateText(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var eval dto.Evaluation
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &eval); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse evaluation from Gemini response")
		return nil, fmt.Errorf("could not parse evaluation: %w", err)
	}
	return &eval, nil
}

func (s *geminiLLMService) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

// stripJSONFences tolerates models that wrap output in ```json fences despite
// being told not to.
func stripJSONFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return strings.TrimSpace(trimmed)
}
