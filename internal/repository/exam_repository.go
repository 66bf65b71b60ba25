package repository

import (
	"time"

	"exam_admin_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByIDWithQuestions(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.`order` ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Options").
		First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// ExamListFilter 列表过滤条件；CreatedByID 为空表示管理员视角（不过滤属主）
type ExamListFilter struct {
	CreatedByID  string
	Title        string
	Status       model.ExamStatus
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	CreatorEmail string
	Page         int
	Limit        int
}

func (r *ExamRepository) List(filter ExamListFilter) ([]model.Exam, int64, error) {
	query := r.DB.Model(&model.Exam{})

	if filter.CreatedByID != "" {
		query = query.Where("created_by_id = ?", filter.CreatedByID)
	}
	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("exams.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("exams.created_at <= ?", *filter.CreatedTo)
	}
	if filter.CreatorEmail != "" {
		query = query.Joins("JOIN users ON users.id = exams.created_by_id").
			Where("users.email LIKE ?", "%"+filter.CreatorEmail+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var exams []model.Exam
	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.`order` ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Options").
		Preload("CreatedBy").
		Order("exams.updated_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&exams).Error
	return exams, total, err
}

// ListAssigned 返回候选人可见的考试（邮箱在名单中，状态为已发布/进行中/已结束）
func (r *ExamRepository) ListAssigned(email string, page, limit int) ([]model.Exam, int64, error) {
	statuses := []model.ExamStatus{model.ExamPublished, model.ExamRunning, model.ExamEnded}

	query := r.DB.Model(&model.Exam{}).
		Where("status IN ?", statuses).
		Where("JSON_CONTAINS(assignees, JSON_QUOTE(?))", email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var exams []model.Exam
	offset := (page - 1) * limit
	err := query.
		Preload("Questions").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&exams).Error
	return exams, total, err
}
