package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ptdat/skillgate/internal/dto"
	"github.com/ptdat/skillgate/internal/model"
	"gorm.io/gorm"
)

// newFinalizeFixture wires the service to in-memory stores and runs the
// transaction closure directly.
func newFinalizeFixture(t *testing.T) (*fakeSetStore, *fakeQuestionStore, AssessmentService) {
	t.Helper()
	sets := &fakeSetStore{sets: map[string]*model.QuestionSet{}}
	questions := &fakeQuestionStore{}
	svc := NewAssessmentService(sets, questions, nil)
	svc.(*assessmentService).transact = func(fn func(tx *gorm.DB) error) error { return fn(nil) }
	return sets, questions, svc
}

func TestResolveExpiryFromEndDateAndTime(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

	got := resolveExpiry(createdAt, "2025-01-10", "02:30 PM")
	want := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("resolveExpiry = %v, want %v", got, want)
	}
}

func TestResolveExpiryDefaultsTo48Hours(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	want := createdAt.Add(48 * time.Hour)

	cases := []struct {
		name    string
		endDate string
		endTime string
	}{
		{"no date or time", "", ""},
		{"date only", "2025-01-10", ""},
		{"time only", "", "02:30 PM"},
		{"unparseable time", "2025-01-10", "25:99"},
		{"unparseable date", "10/01/2025", "02:30 PM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveExpiry(createdAt, tc.endDate, tc.endTime); !got.Equal(want) {
				t.Fatalf("resolveExpiry(%q, %q) = %v, want %v", tc.endDate, tc.endTime, got, want)
			}
		})
	}
}

func TestTimeLimitOrDefault(t *testing.T) {
	if got := timeLimitOrDefault(nil); got != 60 {
		t.Fatalf("nil time limit = %d, want 60", got)
	}
	zero := 0
	if got := timeLimitOrDefault(&zero); got != 60 {
		t.Fatalf("zero time limit = %d, want 60", got)
	}
	ninety := 90
	if got := timeLimitOrDefault(&ninety); got != 90 {
		t.Fatalf("explicit time limit = %d, want 90", got)
	}
}

func TestFinalizeTestRejectsIncompleteQuestions(t *testing.T) {
	content := map[string]interface{}{"question": "What is a goroutine?"}

	cases := []struct {
		name string
		q    dto.FinalizeQuestion
	}{
		{"missing type", dto.FinalizeQuestion{Skill: "go", Difficulty: "easy", Content: content}},
		{"missing skill", dto.FinalizeQuestion{Type: "mcq", Difficulty: "easy", Content: content}},
		{"missing difficulty", dto.FinalizeQuestion{Type: "mcq", Skill: "go", Content: content}},
		{"missing content", dto.FinalizeQuestion{Type: "mcq", Skill: "go", Difficulty: "easy"}},
	}

	// Validation runs before any persistence; a nil db guarantees the test
	// fails loudly if a rejected batch ever reaches the transaction.
	svc := NewAssessmentService(nil, nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.FinalizeTest(dto.FinalizeTestRequest{Questions: []dto.FinalizeQuestion{tc.q}})
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestFinalizeTestRejectsEmptyBatch(t *testing.T) {
	svc := NewAssessmentService(nil, nil, nil)
	_, err := svc.FinalizeTest(dto.FinalizeTestRequest{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty batch, got %v", err)
	}
}

func TestFinalizeTestPersistsSetAndQuestions(t *testing.T) {
	sets, questions, svc := newFinalizeFixture(t)

	thirty, ninety := 30, 90
	resp, err := svc.FinalizeTest(dto.FinalizeTestRequest{
		TestTitle: "Backend screen",
		EndDate:   "2025-01-10",
		EndTime:   "02:30 PM",
		Questions: []dto.FinalizeQuestion{
			{QuestionID: "q-keep", Type: "mcq", Skill: "go", Difficulty: "easy", Content: map[string]interface{}{"question": "Pick one"}, TimeLimit: &thirty},
			{Type: "coding", Skill: "go", Difficulty: "hard", Content: map[string]interface{}{"question": "Write it"}, TimeLimit: &ninety},
			{Type: "audio", Skill: "communication", Difficulty: "medium", Content: map[string]interface{}{"prompt_text": "Say it"}}, // time limit defaults to 60
		},
	})
	if err != nil {
		t.Fatalf("FinalizeTest: %v", err)
	}
	if resp.Status != "success" || resp.QuestionSetID == "" {
		t.Fatalf("response = %+v", resp)
	}

	wantExpiry := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	if !resp.ExpiryTime.Equal(wantExpiry) {
		t.Fatalf("expiry = %v, want %v", resp.ExpiryTime, wantExpiry)
	}

	set, ok := sets.sets[resp.QuestionSetID]
	if !ok {
		t.Fatal("question set was not persisted")
	}
	if set.Duration != 180 {
		t.Fatalf("persisted duration = %d, want 30+90+60 = 180", set.Duration)
	}
	if set.Title != "Backend screen" {
		t.Fatalf("persisted title = %q", set.Title)
	}

	stored, err := questions.FindBySetID(resp.QuestionSetID)
	if err != nil {
		t.Fatalf("FindBySetID: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("persisted %d questions, want 3", len(stored))
	}
	for i, q := range stored {
		if q.Position != i {
			t.Fatalf("question %d position = %d", i, q.Position)
		}
	}
	if stored[0].ID != "q-keep" {
		t.Fatalf("echoed question id not kept: %q", stored[0].ID)
	}
	if stored[1].ID == "" || stored[2].ID == "" {
		t.Fatal("missing question ids were not assigned")
	}
	if stored[2].TimeLimit != 60 {
		t.Fatalf("defaulted time limit = %d, want 60", stored[2].TimeLimit)
	}
}

func TestFinalizeTestDefaultsTitle(t *testing.T) {
	sets, _, svc := newFinalizeFixture(t)

	resp, err := svc.FinalizeTest(dto.FinalizeTestRequest{
		Questions: []dto.FinalizeQuestion{
			{Type: "mcq", Skill: "go", Difficulty: "easy", Content: map[string]interface{}{"question": "?"}},
		},
	})
	if err != nil {
		t.Fatalf("FinalizeTest: %v", err)
	}
	if resp.TestTitle != "Untitled Test" {
		t.Fatalf("title = %q, want Untitled Test", resp.TestTitle)
	}
	if sets.sets[resp.QuestionSetID].Title != "Untitled Test" {
		t.Fatalf("persisted title = %q", sets.sets[resp.QuestionSetID].Title)
	}
}

func TestGetQuestionSetQuestionsUnknownSet(t *testing.T) {
	_, _, svc := newFinalizeFixture(t)

	_, err := svc.GetQuestionSetQuestions("missing-set")
	if !errors.Is(err, ErrQuestionSetNotFound) {
		t.Fatalf("err = %v, want ErrQuestionSetNotFound", err)
	}
}

func TestGetQuestionSetQuestionsReturnsPersistedBatch(t *testing.T) {
	_, _, svc := newFinalizeFixture(t)

	thirty := 30
	resp, err := svc.FinalizeTest(dto.FinalizeTestRequest{
		Questions: []dto.FinalizeQuestion{
			{Type: "mcq", Skill: "go", Difficulty: "easy", Content: map[string]interface{}{"question": "?"}, TimeLimit: &thirty},
			{Type: "coding", Skill: "go", Difficulty: "hard", Content: map[string]interface{}{"question": "?"}},
		},
	})
	if err != nil {
		t.Fatalf("FinalizeTest: %v", err)
	}

	listing, err := svc.GetQuestionSetQuestions(resp.QuestionSetID)
	if err != nil {
		t.Fatalf("GetQuestionSetQuestions: %v", err)
	}
	if listing.QuestionSetID != resp.QuestionSetID {
		t.Fatalf("listing set id = %q, want %q", listing.QuestionSetID, resp.QuestionSetID)
	}
	if len(listing.Questions) != 2 {
		t.Fatalf("listed %d questions, want 2", len(listing.Questions))
	}
	if listing.Questions[0].TimeLimit != 30 || listing.Questions[1].TimeLimit != 60 {
		t.Fatalf("time limits = %d/%d, want 30/60", listing.Questions[0].TimeLimit, listing.Questions[1].TimeLimit)
	}
	if listing.Questions[1].Position != 1 {
		t.Fatalf("position = %d, want 1", listing.Questions[1].Position)
	}
}
