package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ptdat/skillgate/internal/dto"
)

type fakeLLM struct {
	calls      []string // "skill/type/difficulty/options"
	failOnCall int      // 1-based; 0 disables
	eval       *dto.Evaluation
	evalErr    error
}

func (f *fakeLLM) GenerateQuestion(ctx context.Context, skill, difficulty, qtype string, optionCount int) (map[string]interface{}, error) {
	f.calls = append(f.calls, strings.Join([]string{skill, qtype, difficulty}, "/"))
	if f.failOnCall > 0 && len(f.calls) == f.failOnCall {
		return nil, errors.New("llm unavailable")
	}
	return map[string]interface{}{"question": "q for " + skill}, nil
}

func (f *fakeLLM) EvaluateAnswer(ctx context.Context, qtype, questionText, correctAnswer, candidateAnswer string) (*dto.Evaluation, error) {
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return f.eval, nil
}

func TestGenerateQuestionsProducesRequestedCounts(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewGenerationService(llm)

	req := dto.GenerateTestRequest{
		Skills: []dto.SkillRequest{
			{Name: "golang", Difficulty: "hard", Counts: map[string]int{"mcq": 2, "coding": 1}},
			{Name: "sql", Counts: map[string]int{"mcq": 1}},
		},
	}

	questions, err := svc.GenerateQuestions(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("got %d questions, want 4", len(questions))
	}

	// Skills in request order, types in sorted order within a skill.
	wantCalls := []string{"golang/coding/hard", "golang/mcq/hard", "golang/mcq/hard", "sql/mcq/medium"}
	if len(llm.calls) != len(wantCalls) {
		t.Fatalf("got %d llm calls, want %d", len(llm.calls), len(wantCalls))
	}
	for i, want := range wantCalls {
		if llm.calls[i] != want {
			t.Fatalf("call %d = %q, want %q", i, llm.calls[i], want)
		}
	}

	seen := map[string]bool{}
	for _, q := range questions {
		if q.QuestionID == "" {
			t.Fatal("question without id")
		}
		if seen[q.QuestionID] {
			t.Fatalf("duplicate question id %s", q.QuestionID)
		}
		seen[q.QuestionID] = true
		if q.Content == nil {
			t.Fatalf("question %s has no content", q.QuestionID)
		}
	}
}

func TestGenerateQuestionsDefaultsDifficulty(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewGenerationService(llm)

	_, err := svc.GenerateQuestions(context.Background(), dto.GenerateTestRequest{
		Skills: []dto.SkillRequest{{Name: "python", Counts: map[string]int{"coding": 1}}},
	})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if llm.calls[0] != "python/coding/medium" {
		t.Fatalf("call = %q, want difficulty defaulted to medium", llm.calls[0])
	}
}

func TestGenerateQuestionsFailsWholeBatch(t *testing.T) {
	llm := &fakeLLM{failOnCall: 2}
	svc := NewGenerationService(llm)

	questions, err := svc.GenerateQuestions(context.Background(), dto.GenerateTestRequest{
		Skills: []dto.SkillRequest{{Name: "golang", Difficulty: "easy", Counts: map[string]int{"mcq": 3}}},
	})
	if err == nil {
		t.Fatal("expected error when a generation call fails")
	}
	if questions != nil {
		t.Fatalf("expected no partial results, got %d questions", len(questions))
	}
}
