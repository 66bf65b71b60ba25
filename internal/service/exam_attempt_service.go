package service

import (
	"errors"
	"strings"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/util"

	"gorm.io/gorm"
)

// ExamAttemptService 候选人答题流程。
// 开考即落快照：attempt 创建时拷贝试卷、题目与选项，之后的题库编辑不影响本次作答，
// 交卷判分与成绩查询都只读快照。
type ExamAttemptService struct {
	ExamRepo    *repository.ExamRepository
	AttemptRepo *repository.ExamAttemptRepository
	DB          *gorm.DB
	Now         func() time.Time
}

func NewExamAttemptService(
	examRepo *repository.ExamRepository,
	attemptRepo *repository.ExamAttemptRepository,
	db *gorm.DB,
) *ExamAttemptService {
	return &ExamAttemptService{
		ExamRepo:    examRepo,
		AttemptRepo: attemptRepo,
		DB:          db,
		Now:         time.Now,
	}
}

// 候选人视角的考试状态
const (
	AttemptStatusNotAttempted = "NOT_ATTEMPTED"
	AttemptStatusUpcoming     = "UPCOMING"
	AttemptStatusEnded        = "ENDED"
	AttemptStatusInProgress   = "IN_PROGRESS"
	AttemptStatusCompleted    = "COMPLETED"
	AttemptStatusTerminated   = "TERMINATED"
)

// deriveAttemptStatus 考试状态与作答记录合成候选人看到的状态
func deriveAttemptStatus(examStatus model.ExamStatus, attempt *model.ExamAttempt) string {
	switch examStatus {
	case model.ExamPublished:
		return AttemptStatusUpcoming
	case model.ExamEnded:
		return AttemptStatusEnded
	case model.ExamRunning:
		if attempt == nil {
			return AttemptStatusNotAttempted
		}
		switch {
		case attempt.Status == model.AttemptTerminated:
			return AttemptStatusTerminated
		case attempt.Status == model.AttemptSubmitted || attempt.Finished():
			return AttemptStatusCompleted
		default:
			return AttemptStatusInProgress
		}
	default:
		return AttemptStatusNotAttempted
	}
}

// AssignedExamView 候选人考试列表项
type AssignedExamView struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	PassScore     int              `json:"passScore"`
	StartAt       *time.Time       `json:"startAt,omitempty"`
	EndAt         *time.Time       `json:"endAt,omitempty"`
	Status        model.ExamStatus `json:"status"`
	QuestionCount int              `json:"questionCount"`
	AttemptStatus string           `json:"attemptStatus"`
	AttemptScore  *int             `json:"attemptScore"`
}

// ListAssigned 候选人可见的考试及其作答进度
func (s *ExamAttemptService) ListAssigned(claims *util.Claims, page, limit int) ([]AssignedExamView, int64, error) {
	exams, total, err := s.ExamRepo.ListAssigned(claims.Email, page, limit)
	if err != nil {
		return nil, 0, err
	}

	examIDs := make([]string, 0, len(exams))
	for _, e := range exams {
		examIDs = append(examIDs, e.ID)
	}
	attempts, err := s.AttemptRepo.ListByUserAndExams(claims.UserID, examIDs)
	if err != nil {
		return nil, 0, err
	}
	attemptMap := make(map[string]*model.ExamAttempt, len(attempts))
	for i := range attempts {
		attemptMap[attempts[i].ExamID] = &attempts[i]
	}

	views := make([]AssignedExamView, 0, len(exams))
	for _, e := range exams {
		attempt := attemptMap[e.ID]
		view := AssignedExamView{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			PassScore:     e.PassScore,
			StartAt:       e.StartAt,
			EndAt:         e.EndAt,
			Status:        e.Status,
			QuestionCount: len(e.Questions),
			AttemptStatus: deriveAttemptStatus(e.Status, attempt),
		}
		if attempt != nil {
			view.AttemptScore = attempt.Score
		}
		views = append(views, view)
	}
	return views, total, nil
}

// StartExamView 开考响应：快照试卷，选项不含答案
type StartExamView struct {
	AttemptID string                      `json:"attemptId"`
	Exam      StartExamSnapshot           `json:"exam"`
	Questions []model.ExamAttemptQuestion `json:"questions"`
}

type StartExamSnapshot struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PassScore   int        `json:"passScore"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
}

// Start 开考。首次调用创建作答记录并落快照，重复调用幂等返回同一份快照。
// 已交卷或被终止的作答不允许重新进入。
func (s *ExamAttemptService) Start(claims *util.Claims, examID string) (*StartExamView, error) {
	exam, err := s.ExamRepo.FindByIDWithQuestions(examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotAvailable
	}
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamRunning {
		return nil, util.ErrExamNotAvailable
	}
	if !exam.AssignedTo(claims.Email) {
		return nil, util.ErrNotAssigned
	}

	attempt, err := s.AttemptRepo.FindByUserAndExam(claims.UserID, examID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	resumed := attempt != nil
	if attempt == nil {
		attempt, err = s.createAttemptWithSnapshot(claims.UserID, exam)
		if err != nil {
			return nil, err
		}
	}

	if attempt.Status == model.AttemptTerminated {
		return nil, util.ErrAttemptTerminated
	}
	if attempt.Status == model.AttemptSubmitted || attempt.Finished() {
		return nil, util.ErrAlreadySubmitted
	}

	// 重入时刷新试卷标量：考试时间中途被调整后，本次作答跟随最新安排
	if resumed {
		err := s.DB.Model(&model.ExamAttempt{}).
			Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"exam_title":       exam.Title,
				"exam_description": exam.Description,
				"pass_score":       exam.PassScore,
				"start_at":         exam.StartAt,
				"end_at":           exam.EndAt,
			}).Error
		if err != nil {
			return nil, err
		}
	}

	full, err := s.AttemptRepo.FindWithSnapshot(claims.UserID, examID)
	if err != nil {
		return nil, err
	}

	return &StartExamView{
		AttemptID: full.ID,
		Exam: StartExamSnapshot{
			ID:          examID,
			Title:       full.ExamTitle,
			Description: full.ExamDescription,
			PassScore:   full.PassScore,
			StartAt:     full.StartAt,
			EndAt:       full.EndAt,
		},
		Questions: full.Questions,
	}, nil
}

// createAttemptWithSnapshot 单事务落快照；撞唯一索引说明并发开考，改读已有记录
func (s *ExamAttemptService) createAttemptWithSnapshot(userID string, exam *model.Exam) (*model.ExamAttempt, error) {
	attempt := &model.ExamAttempt{
		UserID:          userID,
		ExamID:          exam.ID,
		Status:          model.AttemptInProgress,
		ExamTitle:       exam.Title,
		ExamDescription: exam.Description,
		PassScore:       exam.PassScore,
		StartAt:         exam.StartAt,
		EndAt:           exam.EndAt,
		StartedAt:       s.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for _, binding := range exam.Questions {
			if binding.Question == nil {
				continue
			}
			snapshot := model.ExamAttemptQuestion{
				AttemptID:  attempt.ID,
				QuestionID: binding.QuestionID,
				Order:      binding.Order,
				Score:      binding.Score,
				Content:    binding.Question.Content,
				Tags:       binding.Question.Tags,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
			for _, opt := range binding.Question.Options {
				optSnapshot := model.ExamAttemptOption{
					AttemptQuestionID: snapshot.ID,
					OriginalOptionID:  opt.ID,
					Content:           opt.Content,
					IsCorrect:         opt.IsCorrect,
				}
				if err := tx.Create(&optSnapshot).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicateKeyErr(err) {
			return s.AttemptRepo.FindByUserAndExam(userID, exam.ID)
		}
		return nil, err
	}
	return attempt, nil
}

func isDuplicateKeyErr(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry")
}

type AnswerInput struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
}

type SubmitExamInput struct {
	Answers []AnswerInput `json:"answers" binding:"required"`
}

// gradeAnswers 按快照判分：选中项即快照的正确项则累加该题分值
func gradeAnswers(questions []model.ExamAttemptQuestion, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		selected, ok := answers[q.QuestionID]
		if !ok {
			continue
		}
		for _, o := range q.Options {
			if o.IsCorrect && o.OriginalOptionID == selected {
				score += q.Score
				break
			}
		}
	}
	return score
}

// Submit 交卷：记录选中项、判分、封存作答。每人每场仅一次。
func (s *ExamAttemptService) Submit(claims *util.Claims, examID string, input SubmitExamInput) (*model.ExamAttempt, error) {
	answers := make(map[string]string, len(input.Answers))
	for _, a := range input.Answers {
		if _, dup := answers[a.QuestionID]; dup {
			return nil, util.ErrDuplicateAnswers
		}
		answers[a.QuestionID] = a.OptionID
	}

	var attempt *model.ExamAttempt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var found model.ExamAttempt
		err := tx.
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("exam_attempt_questions.`order` ASC")
			}).
			Preload("Questions.Options").
			Where("user_id = ? AND exam_id = ?", claims.UserID, examID).
			First(&found).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAttemptNotFound
		}
		if err != nil {
			return err
		}

		if found.Finished() {
			return util.ErrAlreadySubmitted
		}
		if found.Status == model.AttemptTerminated {
			return util.ErrAttemptTerminated
		}

		for _, q := range found.Questions {
			selected, answered := answers[q.QuestionID]
			if !answered {
				continue
			}
			err := tx.Model(&model.ExamAttemptOption{}).
				Where("attempt_question_id = ?", q.ID).
				Update("is_selected", false).Error
			if err != nil {
				return err
			}
			err = tx.Model(&model.ExamAttemptOption{}).
				Where("attempt_question_id = ? AND original_option_id = ?", q.ID, selected).
				Update("is_selected", true).Error
			if err != nil {
				return err
			}
		}

		score := gradeAnswers(found.Questions, answers)
		now := s.Now()
		err = tx.Model(&found).Updates(map[string]interface{}{
			"status":      model.AttemptSubmitted,
			"score":       score,
			"finished_at": now,
		}).Error
		if err != nil {
			return err
		}

		found.Status = model.AttemptSubmitted
		found.Score = &score
		found.FinishedAt = &now
		attempt = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// ResultQuestionView 成绩单的单题明细，全部取自快照
type ResultQuestionView struct {
	ID                    string            `json:"id"`
	Content               string            `json:"content"`
	Tags                  model.StringArray `json:"tags"`
	SelectedOptionID      string            `json:"selectedOptionId,omitempty"`
	SelectedOptionContent string            `json:"selectedOptionContent,omitempty"`
	CorrectOptionID       string            `json:"correctOptionId,omitempty"`
	CorrectOptionContent  string            `json:"correctOptionContent,omitempty"`
	IsCorrect             bool              `json:"isCorrect"`
	Score                 int               `json:"score"`
}

type ResultView struct {
	ExamID     string               `json:"examId"`
	Score      *int                 `json:"score"`
	TotalScore int                  `json:"totalScore"`
	Pass       bool                 `json:"pass"`
	Questions  []ResultQuestionView `json:"questions"`
}

// GetResult 成绩查询，仅交卷或终止后可见
func (s *ExamAttemptService) GetResult(claims *util.Claims, examID string) (*ResultView, error) {
	attempt, err := s.AttemptRepo.FindWithSnapshot(claims.UserID, examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrExamNotCompleted
	}
	if err != nil {
		return nil, err
	}
	if !attempt.Finished() {
		return nil, util.ErrExamNotCompleted
	}

	result := &ResultView{
		ExamID: examID,
		Score:  attempt.Score,
		Pass:   attempt.Score != nil && *attempt.Score >= attempt.PassScore,
	}

	for _, q := range attempt.Questions {
		view := ResultQuestionView{
			ID:      q.QuestionID,
			Content: q.Content,
			Tags:    q.Tags,
			Score:   q.Score,
		}
		for _, o := range q.Options {
			if o.IsSelected {
				view.SelectedOptionID = o.OriginalOptionID
				view.SelectedOptionContent = o.Content
				view.IsCorrect = o.IsCorrect
			}
			if o.IsCorrect {
				view.CorrectOptionID = o.OriginalOptionID
				view.CorrectOptionContent = o.Content
			}
		}
		result.TotalScore += q.Score
		result.Questions = append(result.Questions, view)
	}
	return result, nil
}
