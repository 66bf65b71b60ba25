package repository

import (
	"exam_admin_backend/internal/model"

	"gorm.io/gorm"
)

type ExamQuestionRepository struct {
	DB *gorm.DB
}

func NewExamQuestionRepository(db *gorm.DB) *ExamQuestionRepository {
	return &ExamQuestionRepository{DB: db}
}

func (r *ExamQuestionRepository) ListByExam(examID string) ([]model.ExamQuestion, error) {
	var bindings []model.ExamQuestion
	err := r.DB.
		Preload("Question").
		Preload("Question.Options").
		Where("exam_id = ?", examID).
		Order("exam_questions.`order` ASC").
		Find(&bindings).Error
	return bindings, err
}

func (r *ExamQuestionRepository) Create(binding *model.ExamQuestion) error {
	return r.DB.Create(binding).Error
}

func (r *ExamQuestionRepository) Delete(examID, questionID string) error {
	return r.DB.Where("exam_id = ? AND question_id = ?", examID, questionID).
		Delete(&model.ExamQuestion{}).Error
}

func (r *ExamQuestionRepository) CountByExam(examID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamQuestion{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}
