package repository

import (
	"exam_admin_backend/internal/model"

	"gorm.io/gorm"
)

type ExamAttemptRepository struct {
	DB *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) *ExamAttemptRepository {
	return &ExamAttemptRepository{DB: db}
}

func (r *ExamAttemptRepository) FindByID(id string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.DB.First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *ExamAttemptRepository) FindByUserAndExam(userID, examID string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.Where("user_id = ? AND exam_id = ?", userID, examID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindWithSnapshot 加载作答记录及其题目/选项快照（按题序）
func (r *ExamAttemptRepository) FindWithSnapshot(userID, examID string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_attempt_questions.`order` ASC")
		}).
		Preload("Questions.Options").
		Where("user_id = ? AND exam_id = ?", userID, examID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *ExamAttemptRepository) ListByExam(examID string, page, limit int) ([]model.ExamAttempt, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ExamAttempt{}).Where("exam_id = ?", examID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.ExamAttempt
	offset := (page - 1) * limit
	err := r.DB.
		Preload("User").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_attempt_questions.`order` ASC")
		}).
		Preload("Questions.Options").
		Where("exam_id = ?", examID).
		Order("started_at DESC").
		Offset(offset).Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

// ListByUserAndExams 批量查询候选人在多场考试下的作答记录
func (r *ExamAttemptRepository) ListByUserAndExams(userID string, examIDs []string) ([]model.ExamAttempt, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}
	var attempts []model.ExamAttempt
	err := r.DB.Where("user_id = ? AND exam_id IN ?", userID, examIDs).Find(&attempts).Error
	return attempts, err
}
