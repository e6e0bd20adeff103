package dto

// SkillRequest names one skill to generate questions for, with the number of
// questions wanted per question type (mcq, coding, audio, video).
type SkillRequest struct {
	Name       string         `json:"name" binding:"required"`
	Difficulty string         `json:"difficulty"`
	Counts     map[string]int `json:"counts" binding:"required"`
}

type GlobalSettings struct {
	MCQOptions int `json:"mcq_options"`
}

type GenerateTestRequest struct {
	Skills         []SkillRequest  `json:"skills" binding:"required,min=1,dive"`
	GlobalSettings *GlobalSettings `json:"global_settings"`
}

// GeneratedQuestion is a question produced by the LLM but not yet persisted;
// the client reviews these and sends the kept ones back via finalize-test.
type GeneratedQuestion struct {
	QuestionID string                 `json:"question_id"`
	Skill      string                 `json:"skill"`
	Type       string                 `json:"type"`
	Difficulty string                 `json:"difficulty"`
	Content    map[string]interface{} `json:"content"`
}

type GenerateTestResponse struct {
	Status    string              `json:"status"`
	Questions []GeneratedQuestion `json:"questions"`
}
