package service

import (
	"errors"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	DB           *gorm.DB
}

func NewQuestionService(questionRepo *repository.QuestionRepository, db *gorm.DB) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		DB:           db,
	}
}

type OptionInput struct {
	ID        string `json:"id"`
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type CreateQuestionInput struct {
	Content string        `json:"content" binding:"required"`
	Tags    []string      `json:"tags"`
	Options []OptionInput `json:"options" binding:"required,min=2"`
}

type UpdateQuestionInput struct {
	Content   string        `json:"content"`
	Tags      []string      `json:"tags"`
	Options   []OptionInput `json:"options" binding:"required,min=2"`
	UpdatedAt time.Time     `json:"updatedAt" binding:"required"`
}

// validateSingleCorrect 每道题必须恰好一个正确选项
func validateSingleCorrect(options []OptionInput) error {
	correct := 0
	for _, o := range options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return util.Validationf("each question must have exactly one correct option")
	}
	return nil
}

func (s *QuestionService) Create(input CreateQuestionInput) (*model.Question, error) {
	if err := validateSingleCorrect(input.Options); err != nil {
		return nil, err
	}

	question := &model.Question{
		Content: input.Content,
		Tags:    input.Tags,
	}
	for _, o := range input.Options {
		question.Options = append(question.Options, model.Option{
			Content:   o.Content,
			IsCorrect: o.IsCorrect,
		})
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) List() ([]model.Question, int64, error) {
	questions, err := s.QuestionRepo.List()
	if err != nil {
		return nil, 0, err
	}
	return questions, int64(len(questions)), nil
}

func (s *QuestionService) GetByID(id string) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return question, err
}

// optionDiff 选项三路对比结果
type optionDiff struct {
	toCreate []OptionInput
	toUpdate []OptionInput
	toDelete []string
}

// diffOptions 按选项 ID 分类：已有则更新，无 ID 或未知 ID 则新建，缺席则删除
func diffOptions(existing []model.Option, incoming []OptionInput) optionDiff {
	existingIDs := make(map[string]bool, len(existing))
	for _, o := range existing {
		existingIDs[o.ID] = true
	}

	var diff optionDiff
	incomingIDs := make(map[string]bool, len(incoming))
	for _, o := range incoming {
		if o.ID != "" && existingIDs[o.ID] {
			diff.toUpdate = append(diff.toUpdate, o)
			incomingIDs[o.ID] = true
		} else {
			diff.toCreate = append(diff.toCreate, o)
		}
	}
	for _, o := range existing {
		if !incomingIDs[o.ID] {
			diff.toDelete = append(diff.toDelete, o.ID)
		}
	}
	return diff
}

// Update 乐观锁：请求携带的 updatedAt 与库中不一致则返回冲突
func (s *QuestionService) Update(id string, input UpdateQuestionInput) (*model.Question, error) {
	if err := validateSingleCorrect(input.Options); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var question model.Question
		if err := tx.Preload("Options").First(&question, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuestionNotFound
			}
			return err
		}

		if !input.UpdatedAt.Equal(question.UpdatedAt) {
			return util.Conflictf("question has been modified by another user")
		}

		diff := diffOptions(question.Options, input.Options)

		updates := map[string]interface{}{"tags": model.StringArray(input.Tags)}
		if input.Content != "" {
			updates["content"] = input.Content
		}
		if err := tx.Model(&question).Updates(updates).Error; err != nil {
			return err
		}

		for _, o := range diff.toUpdate {
			err := tx.Model(&model.Option{}).
				Where("id = ? AND question_id = ?", o.ID, id).
				Updates(map[string]interface{}{"content": o.Content, "is_correct": o.IsCorrect}).Error
			if err != nil {
				return err
			}
		}

		for _, o := range diff.toCreate {
			opt := model.Option{QuestionID: id, Content: o.Content, IsCorrect: o.IsCorrect}
			if err := tx.Create(&opt).Error; err != nil {
				return err
			}
		}

		if len(diff.toDelete) > 0 {
			err := tx.Where("question_id = ? AND id IN ?", id, diff.toDelete).
				Delete(&model.Option{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

func (s *QuestionService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.QuestionRepo.Delete(id)
}
