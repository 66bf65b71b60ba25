package repository

import (
	"exam_admin_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	if err := r.DB.Preload("Options").First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) List() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Options").Order("created_at DESC").Find(&questions).Error
	return questions, err
}

// CountExisting 返回给定 ID 中真实存在的题目 ID
func (r *QuestionRepository) CountExisting(ids []string) ([]string, error) {
	var existing []string
	err := r.DB.Model(&model.Question{}).Where("id IN ?", ids).Pluck("id", &existing).Error
	return existing, err
}

func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, "id = ?", id).Error
	})
}
