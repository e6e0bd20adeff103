package repository

import (
	"github.com/ptdat/skillgate/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindBySetID(setID string) ([]model.Question, error)
	FindBySetIDAndTypes(setID string, types []string) ([]model.Question, error)
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) QuestionRepository
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindBySetID(setID string) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("question_set_id = ?", setID).Order("position ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindBySetIDAndTypes(setID string, types []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("question_set_id = ? AND type IN ?", setID, types).
		Order("position ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
