package service

import (
	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/util"

	"gorm.io/gorm"
)

// ExamQuestionService 维护试卷与题库的绑定（题序、分值）
type ExamQuestionService struct {
	ExamRepo     *repository.ExamRepository
	ExamQRepo    *repository.ExamQuestionRepository
	QuestionRepo *repository.QuestionRepository
	DB           *gorm.DB
}

func NewExamQuestionService(
	examRepo *repository.ExamRepository,
	examQRepo *repository.ExamQuestionRepository,
	questionRepo *repository.QuestionRepository,
	db *gorm.DB,
) *ExamQuestionService {
	return &ExamQuestionService{
		ExamRepo:     examRepo,
		ExamQRepo:    examQRepo,
		QuestionRepo: questionRepo,
		DB:           db,
	}
}

type BindingInput struct {
	QuestionID string `json:"questionId" binding:"required"`
	Order      int    `json:"order" binding:"required,min=1"`
	Score      *int   `json:"score"`
}

// bindingDiff 绑定三路对比结果
type bindingDiff struct {
	toCreate []BindingInput
	toUpdate []BindingInput
	toDelete []string
}

// validateBindings 题序不可重复，同一题不可绑定两次
func validateBindings(incoming []BindingInput) error {
	orders := make(map[int]bool, len(incoming))
	questions := make(map[string]bool, len(incoming))
	for _, b := range incoming {
		if orders[b.Order] {
			return util.ErrDuplicateOrder
		}
		orders[b.Order] = true
		if questions[b.QuestionID] {
			return util.Validationf("question %s is bound more than once", b.QuestionID)
		}
		questions[b.QuestionID] = true
	}
	return nil
}

// diffBindings 按 questionId 分类：已绑定则原地更新，新题创建，缺席的解绑
func diffBindings(existing []model.ExamQuestion, incoming []BindingInput) bindingDiff {
	existingIDs := make(map[string]bool, len(existing))
	for _, b := range existing {
		existingIDs[b.QuestionID] = true
	}

	var diff bindingDiff
	incomingIDs := make(map[string]bool, len(incoming))
	for _, b := range incoming {
		incomingIDs[b.QuestionID] = true
		if existingIDs[b.QuestionID] {
			diff.toUpdate = append(diff.toUpdate, b)
		} else {
			diff.toCreate = append(diff.toCreate, b)
		}
	}
	for _, b := range existing {
		if !incomingIDs[b.QuestionID] {
			diff.toDelete = append(diff.toDelete, b.QuestionID)
		}
	}
	return diff
}

func (s *ExamQuestionService) List(examID string, claims *util.Claims) ([]model.ExamQuestion, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	if !canManage(exam, claims) {
		return nil, util.ErrPermissionDenied
	}
	return s.ExamQRepo.ListByExam(examID)
}

// Attach 向试卷追加一道题，题序或题目重复会撞唯一索引返回冲突
func (s *ExamQuestionService) Attach(examID string, claims *util.Claims, input BindingInput) (*model.ExamQuestion, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	if !canManage(exam, claims) {
		return nil, util.ErrPermissionDenied
	}
	if !exam.Editable() {
		return nil, util.Validationf("exam questions cannot be changed in status %s", exam.Status)
	}

	existing, err := s.QuestionRepo.CountExisting([]string{input.QuestionID})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	score := 1
	if input.Score != nil {
		score = *input.Score
	}
	binding := &model.ExamQuestion{
		ExamID:     examID,
		QuestionID: input.QuestionID,
		Order:      input.Order,
		Score:      score,
	}
	if err := s.ExamQRepo.Create(binding); err != nil {
		if isDuplicateKeyErr(err) {
			return nil, util.Conflictf("question or order already bound to this exam")
		}
		return nil, err
	}
	return binding, nil
}

// Detach 从试卷解绑一道题
func (s *ExamQuestionService) Detach(examID, questionID string, claims *util.Claims) error {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return util.ErrExamNotFound
	}
	if !canManage(exam, claims) {
		return util.ErrPermissionDenied
	}
	if !exam.Editable() {
		return util.Validationf("exam questions cannot be changed in status %s", exam.Status)
	}
	return s.ExamQRepo.Delete(examID, questionID)
}

// Reconcile 以请求的绑定列表为目标状态，单事务内完成增删改
func (s *ExamQuestionService) Reconcile(examID string, claims *util.Claims, incoming []BindingInput) ([]model.ExamQuestion, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	if !canManage(exam, claims) {
		return nil, util.ErrPermissionDenied
	}
	if !exam.Editable() {
		return nil, util.Validationf("exam questions cannot be changed in status %s", exam.Status)
	}

	if err := validateBindings(incoming); err != nil {
		return nil, err
	}

	questionIDs := make([]string, 0, len(incoming))
	for _, b := range incoming {
		questionIDs = append(questionIDs, b.QuestionID)
	}
	if len(questionIDs) > 0 {
		existing, err := s.QuestionRepo.CountExisting(questionIDs)
		if err != nil {
			return nil, err
		}
		if len(existing) != len(questionIDs) {
			return nil, util.Validationf("some questions do not exist")
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var current []model.ExamQuestion
		if err := tx.Where("exam_id = ?", examID).Find(&current).Error; err != nil {
			return err
		}

		diff := diffBindings(current, incoming)

		// 先删后改再增，避免题序唯一索引的中途冲突
		if len(diff.toDelete) > 0 {
			err := tx.Where("exam_id = ? AND question_id IN ?", examID, diff.toDelete).
				Delete(&model.ExamQuestion{}).Error
			if err != nil {
				return err
			}
		}

		// 题序互换会撞 (exam_id, order) 唯一索引，先挪到负数过渡区再落到目标值
		for _, b := range diff.toUpdate {
			err := tx.Model(&model.ExamQuestion{}).
				Where("exam_id = ? AND question_id = ?", examID, b.QuestionID).
				Update("order", -b.Order).Error
			if err != nil {
				return err
			}
		}
		for _, b := range diff.toUpdate {
			updates := map[string]interface{}{"order": b.Order}
			if b.Score != nil {
				updates["score"] = *b.Score
			}
			err := tx.Model(&model.ExamQuestion{}).
				Where("exam_id = ? AND question_id = ?", examID, b.QuestionID).
				Updates(updates).Error
			if err != nil {
				return err
			}
		}

		for _, b := range diff.toCreate {
			score := 1
			if b.Score != nil {
				score = *b.Score
			}
			binding := model.ExamQuestion{
				ExamID:     examID,
				QuestionID: b.QuestionID,
				Order:      b.Order,
				Score:      score,
			}
			if err := tx.Create(&binding).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ExamQRepo.ListByExam(examID)
}
