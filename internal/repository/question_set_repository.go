package repository

import (
	"github.com/ptdat/skillgate/internal/model"
	"gorm.io/gorm"
)

type QuestionSetRepository interface {
	Create(set *model.QuestionSet) error
	FindByID(id string) (*model.QuestionSet, error)
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) QuestionSetRepository
}

type questionSetRepository struct {
	db *gorm.DB
}

func NewQuestionSetRepository(db *gorm.DB) QuestionSetRepository {
	return &questionSetRepository{db: db}
}

func (r *questionSetRepository) WithTx(tx *gorm.DB) QuestionSetRepository {
	return &questionSetRepository{db: tx}
}

func (r *questionSetRepository) Create(set *model.QuestionSet) error {
	return r.db.Create(set).Error
}

func (r *questionSetRepository) FindByID(id string) (*model.QuestionSet, error) {
	var set model.QuestionSet
	if err := r.db.First(&set, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}
