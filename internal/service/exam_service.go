package service

import (
	"context"
	"errors"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/util"

	"gorm.io/gorm"
)

type ExamService struct {
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.ExamAttemptRepository
	Bindings     *ExamQuestionService
	Events       *EventPublisher
	DB           *gorm.DB
	Now          func() time.Time
}

func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.ExamAttemptRepository,
	bindings *ExamQuestionService,
	events *EventPublisher,
	db *gorm.DB,
) *ExamService {
	return &ExamService{
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		Bindings:     bindings,
		Events:       events,
		DB:           db,
		Now:          time.Now,
	}
}

type CreateExamInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	PassScore   int        `json:"passScore"`
	Assignees   []string   `json:"assignees"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	QuestionIDs []string   `json:"questionIds"`
}

type UpdateExamInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	PassScore   *int       `json:"passScore"`
	Assignees   []string   `json:"assignees"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`

	// 非 nil 时一并对账试卷绑定
	Questions []BindingInput `json:"questions"`
}

// validateSchedule 开考时间必须早于结束时间
func validateSchedule(startAt, endAt *time.Time) error {
	if startAt != nil && endAt != nil && !startAt.Before(*endAt) {
		return util.Validationf("startAt must be before endAt")
	}
	return nil
}

// canManage 管理员或创建者可管理考试
func canManage(exam *model.Exam, claims *util.Claims) bool {
	return claims.Role == model.Admin || exam.CreatedByID == claims.UserID
}

func (s *ExamService) Create(claims *util.Claims, input CreateExamInput) (*model.Exam, error) {
	if err := validateSchedule(input.StartAt, input.EndAt); err != nil {
		return nil, err
	}

	if len(input.QuestionIDs) > 0 {
		existing, err := s.QuestionRepo.CountExisting(input.QuestionIDs)
		if err != nil {
			return nil, err
		}
		if len(existing) != len(input.QuestionIDs) {
			return nil, util.Validationf("some questions do not exist")
		}
	}

	exam := &model.Exam{
		Title:       input.Title,
		Description: input.Description,
		PassScore:   input.PassScore,
		Assignees:   input.Assignees,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Status:      model.ExamDraft,
		CreatedByID: claims.UserID,
		UpdatedByID: claims.UserID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		for i, qid := range input.QuestionIDs {
			binding := model.ExamQuestion{
				ExamID:     exam.ID,
				QuestionID: qid,
				Order:      i + 1,
				Score:      1,
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

	return s.ExamRepo.FindByIDWithQuestions(exam.ID)
}

func (s *ExamService) GetByID(id string, claims *util.Claims) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}
	if !canManage(exam, claims) {
		return nil, util.ErrPermissionDenied
	}
	return exam, nil
}

// List 管理员看到全部考试，考官只看到自己创建的
func (s *ExamService) List(filter repository.ExamListFilter, claims *util.Claims) ([]model.Exam, int64, error) {
	if claims.Role != model.Admin {
		filter.CreatedByID = claims.UserID
	}
	return s.ExamRepo.List(filter)
}

func (s *ExamService) Update(id string, claims *util.Claims, input UpdateExamInput) (*model.Exam, error) {
	exam, err := s.GetByID(id, claims)
	if err != nil {
		return nil, err
	}
	if !exam.Editable() {
		return nil, util.Validationf("exam cannot be edited in status %s", exam.Status)
	}

	if input.Title != "" {
		exam.Title = input.Title
	}
	if input.Description != nil {
		exam.Description = *input.Description
	}
	if input.PassScore != nil {
		exam.PassScore = *input.PassScore
	}
	if input.Assignees != nil {
		exam.Assignees = input.Assignees
	}
	if input.StartAt != nil {
		exam.StartAt = input.StartAt
	}
	if input.EndAt != nil {
		exam.EndAt = input.EndAt
	}
	if err := validateSchedule(exam.StartAt, exam.EndAt); err != nil {
		return nil, err
	}
	exam.UpdatedByID = claims.UserID

	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}

	if input.Questions != nil {
		if _, err := s.Bindings.Reconcile(id, claims, input.Questions); err != nil {
			return nil, err
		}
	}
	return s.ExamRepo.FindByIDWithQuestions(id)
}

// Duplicate 复制考试为新草稿：标题加 (Copy)，时间与状态重置，绑定关系照搬
func (s *ExamService) Duplicate(id string, claims *util.Claims) (*model.Exam, error) {
	source, err := s.GetByID(id, claims)
	if err != nil {
		return nil, err
	}

	clone := &model.Exam{
		Title:       source.Title + " (Copy)",
		Description: source.Description,
		PassScore:   source.PassScore,
		Assignees:   source.Assignees,
		Status:      model.ExamDraft,
		CreatedByID: claims.UserID,
		UpdatedByID: claims.UserID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(clone).Error; err != nil {
			return err
		}
		for _, b := range source.Questions {
			binding := model.ExamQuestion{
				ExamID:     clone.ID,
				QuestionID: b.QuestionID,
				Order:      b.Order,
				Score:      b.Score,
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

	return s.ExamRepo.FindByIDWithQuestions(clone.ID)
}

// Publish 仅草稿且至少绑定一道题可发布，成功后广播发布事件
func (s *ExamService) Publish(id string, claims *util.Claims) (*model.Exam, error) {
	exam, err := s.GetByID(id, claims)
	if err != nil {
		return nil, err
	}
	if !exam.CanTransitionTo(model.ExamPublished) {
		return nil, util.Validationf("only draft exams can be published")
	}
	if len(exam.Questions) == 0 {
		return nil, util.Validationf("cannot publish an exam without questions")
	}

	exam.Status = model.ExamPublished
	exam.UpdatedByID = claims.UserID
	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}

	go s.Events.PublishExamPublished(context.Background(), ExamPublishedEvent{
		ExamID:      exam.ID,
		Title:       exam.Title,
		PublishedAt: s.Now(),
	})

	return exam, nil
}

// Unpublish 已发布但未开考的考试退回草稿
func (s *ExamService) Unpublish(id string, claims *util.Claims) (*model.Exam, error) {
	return s.transition(id, claims, model.ExamDraft, "only published exams can be unpublished")
}

// Archive 已结束的考试归档
func (s *ExamService) Archive(id string, claims *util.Claims) (*model.Exam, error) {
	return s.transition(id, claims, model.ExamArchived, "only ended exams can be archived")
}

func (s *ExamService) transition(id string, claims *util.Claims, target model.ExamStatus, failMsg string) (*model.Exam, error) {
	exam, err := s.GetByID(id, claims)
	if err != nil {
		return nil, err
	}
	if !exam.CanTransitionTo(target) {
		return nil, util.Validationf("%s", failMsg)
	}

	// 条件化写入：扫描任务可能在读取之后推进了状态，0 行即已被抢先
	res := s.DB.Model(&model.Exam{}).
		Where("id = ? AND status = ?", id, exam.Status).
		Updates(map[string]interface{}{
			"status":        target,
			"updated_by_id": claims.UserID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, util.Validationf("%s", failMsg)
	}
	exam.Status = target
	exam.UpdatedByID = claims.UserID
	return exam, nil
}

// Delete 仅草稿和已归档可删，级联清理绑定与作答快照
func (s *ExamService) Delete(id string, claims *util.Claims) error {
	exam, err := s.GetByID(id, claims)
	if err != nil {
		return err
	}
	if !exam.Deletable() {
		return util.Validationf("only draft or archived exams can be deleted")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []string
		err := tx.Model(&model.ExamAttempt{}).
			Where("exam_id = ?", id).
			Pluck("id", &attemptIDs).Error
		if err != nil {
			return err
		}

		if len(attemptIDs) > 0 {
			var questionIDs []string
			err := tx.Model(&model.ExamAttemptQuestion{}).
				Where("attempt_id IN ?", attemptIDs).
				Pluck("id", &questionIDs).Error
			if err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("attempt_question_id IN ?", questionIDs).Delete(&model.ExamAttemptOption{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", questionIDs).Delete(&model.ExamAttemptQuestion{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("exam_id = ?", id).Delete(&model.ExamAttempt{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, "id = ?", id).Error
	})
}

// GetStatuses 状态字典，前端下拉用
func (s *ExamService) GetStatuses() []model.ExamStatus {
	return []model.ExamStatus{
		model.ExamDraft,
		model.ExamPublished,
		model.ExamRunning,
		model.ExamEnded,
		model.ExamArchived,
	}
}

// AttemptAnswerView 单题作答详情：候选人选了哪个、正确答案是哪个
type AttemptAnswerView struct {
	QuestionID string `json:"questionId"`
	Order      int    `json:"order"`
	Content    string `json:"content"`
	Score      int    `json:"score"`
	SelectedID string `json:"selectedOptionId,omitempty"`
	CorrectID  string `json:"correctOptionId,omitempty"`
	Correct    bool   `json:"correct"`
}

// AttemptView 考官视角的作答记录
type AttemptView struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	UserEmail  string              `json:"userEmail"`
	Status     model.AttemptStatus `json:"status"`
	Score      *int                `json:"score"`
	StartedAt  time.Time           `json:"startedAt"`
	FinishedAt *time.Time          `json:"finishedAt,omitempty"`
	Answers    []AttemptAnswerView `json:"answers"`
}

// ListAttempts 考官/管理员查看某场考试的全部作答
func (s *ExamService) ListAttempts(examID string, claims *util.Claims, page, limit int) ([]AttemptView, int64, error) {
	if _, err := s.GetByID(examID, claims); err != nil {
		return nil, 0, err
	}

	attempts, total, err := s.AttemptRepo.ListByExam(examID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]AttemptView, 0, len(attempts))
	for _, a := range attempts {
		view := AttemptView{
			ID:         a.ID,
			UserID:     a.UserID,
			Status:     a.Status,
			Score:      a.Score,
			StartedAt:  a.StartedAt,
			FinishedAt: a.FinishedAt,
		}
		if a.User != nil {
			view.UserEmail = a.User.Email
		}
		for _, q := range a.Questions {
			answer := AttemptAnswerView{
				QuestionID: q.QuestionID,
				Order:      q.Order,
				Content:    q.Content,
				Score:      q.Score,
			}
			for _, o := range q.Options {
				if o.IsSelected {
					answer.SelectedID = o.OriginalOptionID
				}
				if o.IsCorrect {
					answer.CorrectID = o.OriginalOptionID
				}
				if o.IsSelected && o.IsCorrect {
					answer.Correct = true
				}
			}
			view.Answers = append(view.Answers, answer)
		}
		views = append(views, view)
	}
	return views, total, nil
}

// TerminateAttempt 考官强制终止进行中的作答，不计分
func (s *ExamService) TerminateAttempt(examID, attemptID string, claims *util.Claims) (*model.ExamAttempt, error) {
	if _, err := s.GetByID(examID, claims); err != nil {
		return nil, err
	}

	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NotFoundf("attempt not found")
	}
	if err != nil {
		return nil, err
	}
	if attempt.ExamID != examID {
		return nil, util.NotFoundf("attempt not found")
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.Validationf("only in-progress attempts can be terminated")
	}

	now := s.Now()
	attempt.Status = model.AttemptTerminated
	attempt.FinishedAt = &now
	if err := s.DB.Save(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}
