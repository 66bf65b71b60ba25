package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/repository"
	"exam_admin_backend/internal/util"

	"gorm.io/gorm"
)

type attemptFixture struct {
	db        *gorm.DB
	exam      *model.Exam
	question  *model.Question
	correct   *model.Option
	wrong     *model.Option
	candidate *model.User
	claims    *util.Claims
	attempts  *ExamAttemptService
	exams     *ExamService
	now       time.Time
}

// seedAttemptFixture 造一场进行中的考试：一道 5 分单选题，指派给一名候选人
func seedAttemptFixture(t *testing.T, db *gorm.DB) *attemptFixture {
	t.Helper()

	suffix := time.Now().UnixNano()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	candidate := &model.User{
		Email:    fmt.Sprintf("itest-attempt-%d@test.com", suffix),
		Password: "x",
		Role:     model.Candidate,
	}
	if err := db.Create(candidate).Error; err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	question := &model.Question{
		Content: fmt.Sprintf("ITEST attempt question %d", suffix),
		Options: []model.Option{
			{Content: "right", IsCorrect: true},
			{Content: "wrong", IsCorrect: false},
		},
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}

	exam := &model.Exam{
		Title:       fmt.Sprintf("ITEST attempt exam %d", suffix),
		PassScore:   3,
		Assignees:   model.StringArray{candidate.Email},
		Status:      model.ExamRunning,
		StartAt:     &past,
		EndAt:       &future,
		CreatedByID: candidate.ID,
		UpdatedByID: candidate.ID,
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("seed exam: %v", err)
	}

	binding := &model.ExamQuestion{
		ExamID:     exam.ID,
		QuestionID: question.ID,
		Order:      1,
		Score:      5,
	}
	if err := db.Create(binding).Error; err != nil {
		t.Fatalf("seed binding: %v", err)
	}

	t.Cleanup(func() {
		var attemptIDs []string
		db.Unscoped().Model(&model.ExamAttempt{}).Where("exam_id = ?", exam.ID).Pluck("id", &attemptIDs)
		if len(attemptIDs) > 0 {
			var snapshotIDs []string
			db.Unscoped().Model(&model.ExamAttemptQuestion{}).Where("attempt_id IN ?", attemptIDs).Pluck("id", &snapshotIDs)
			if len(snapshotIDs) > 0 {
				db.Unscoped().Where("attempt_question_id IN ?", snapshotIDs).Delete(&model.ExamAttemptOption{})
				db.Unscoped().Where("id IN ?", snapshotIDs).Delete(&model.ExamAttemptQuestion{})
			}
			db.Unscoped().Where("id IN ?", attemptIDs).Delete(&model.ExamAttempt{})
		}
		db.Unscoped().Where("exam_id = ?", exam.ID).Delete(&model.ExamQuestion{})
		db.Unscoped().Delete(exam)
		db.Unscoped().Where("question_id = ?", question.ID).Delete(&model.Option{})
		db.Unscoped().Delete(question)
		db.Unscoped().Delete(candidate)
	})

	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewExamAttemptRepository(db)
	bindings := NewExamQuestionService(examRepo, repository.NewExamQuestionRepository(db), questionRepo, db)

	attempts := NewExamAttemptService(examRepo, attemptRepo, db)
	attempts.Now = func() time.Time { return now }
	exams := NewExamService(examRepo, questionRepo, attemptRepo, bindings, NewEventPublisher(nil), db)
	exams.Now = func() time.Time { return now }

	var correct, wrong *model.Option
	for i := range question.Options {
		if question.Options[i].IsCorrect {
			correct = &question.Options[i]
		} else {
			wrong = &question.Options[i]
		}
	}

	return &attemptFixture{
		db:        db,
		exam:      exam,
		question:  question,
		correct:   correct,
		wrong:     wrong,
		candidate: candidate,
		claims:    &util.Claims{UserID: candidate.ID, Email: candidate.Email, Role: model.Candidate},
		attempts:  attempts,
		exams:     exams,
		now:       now,
	}
}

func (f *attemptFixture) snapshotCount(t *testing.T, attemptID string) int64 {
	t.Helper()
	var count int64
	err := f.db.Model(&model.ExamAttemptQuestion{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	if err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	return count
}

func TestStartExam_Idempotent_DBIntegration(t *testing.T) {
	db := openTestDB(t)
	f := seedAttemptFixture(t, db)

	first, err := f.attempts.Start(f.claims, f.exam.ID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if len(first.Questions) != 1 {
		t.Fatalf("first start questions = %d, want 1", len(first.Questions))
	}
	if got := f.snapshotCount(t, first.AttemptID); got != 1 {
		t.Fatalf("snapshot count after first start = %d, want 1", got)
	}

	// 考官把截止时间延后，重入后作答应看到新时间，且不重落快照
	newEnd := f.now.Add(2 * time.Hour)
	err = db.Model(&model.Exam{}).Where("id = ?", f.exam.ID).Update("end_at", &newEnd).Error
	if err != nil {
		t.Fatalf("extend exam: %v", err)
	}

	second, err := f.attempts.Start(f.claims, f.exam.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.AttemptID != first.AttemptID {
		t.Errorf("second start attempt = %s, want %s", second.AttemptID, first.AttemptID)
	}
	if got := f.snapshotCount(t, second.AttemptID); got != 1 {
		t.Errorf("snapshot count after second start = %d, want 1", got)
	}
	if second.Exam.EndAt == nil || second.Exam.EndAt.Unix() != newEnd.Unix() {
		t.Errorf("second start endAt = %v, want %v", second.Exam.EndAt, newEnd)
	}

	var reloaded model.ExamAttempt
	if err := db.First(&reloaded, "id = ?", first.AttemptID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if reloaded.EndAt == nil || reloaded.EndAt.Unix() != newEnd.Unix() {
		t.Errorf("stored snapshot endAt = %v, want %v", reloaded.EndAt, newEnd)
	}
}

func TestSubmitExam_OncePerCandidate_DBIntegration(t *testing.T) {
	db := openTestDB(t)
	f := seedAttemptFixture(t, db)

	if _, err := f.attempts.Start(f.claims, f.exam.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	input := SubmitExamInput{Answers: []AnswerInput{
		{QuestionID: f.question.ID, OptionID: f.correct.ID},
	}}
	attempt, err := f.attempts.Submit(f.claims, f.exam.ID, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Score == nil || *attempt.Score != 5 {
		t.Fatalf("score = %v, want 5", attempt.Score)
	}

	// 二次交卷（换成错误答案）必须被拒绝，且首次成绩保持不变
	_, err = f.attempts.Submit(f.claims, f.exam.ID, SubmitExamInput{Answers: []AnswerInput{
		{QuestionID: f.question.ID, OptionID: f.wrong.ID},
	}})
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second submit err = %v, want ErrAlreadySubmitted", err)
	}

	var reloaded model.ExamAttempt
	if err := db.First(&reloaded, "id = ?", attempt.ID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if reloaded.Score == nil || *reloaded.Score != 5 {
		t.Errorf("score after rejected resubmit = %v, want 5", reloaded.Score)
	}

	result, err := f.attempts.GetResult(f.claims, f.exam.ID)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if !result.Pass {
		t.Error("pass = false, want true (score 5 >= passScore 3)")
	}
	if result.TotalScore != 5 {
		t.Errorf("totalScore = %d, want 5", result.TotalScore)
	}
}

func TestTerminateAttempt_DBIntegration(t *testing.T) {
	db := openTestDB(t)
	f := seedAttemptFixture(t, db)

	started, err := f.attempts.Start(f.claims, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	admin := &util.Claims{UserID: "admin", Email: "admin@test.com", Role: model.Admin}
	terminated, err := f.exams.TerminateAttempt(f.exam.ID, started.AttemptID, admin)
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if terminated.Status != model.AttemptTerminated {
		t.Errorf("status = %s, want TERMINATED", terminated.Status)
	}
	if terminated.FinishedAt == nil || terminated.FinishedAt.Unix() != f.now.Unix() {
		t.Errorf("finishedAt = %v, want injected clock %v", terminated.FinishedAt, f.now)
	}

	if _, err := f.attempts.Start(f.claims, f.exam.ID); !errors.Is(err, util.ErrAttemptTerminated) {
		t.Errorf("start after terminate err = %v, want ErrAttemptTerminated", err)
	}
}

func TestExamTransition_Conditional_DBIntegration(t *testing.T) {
	db := openTestDB(t)
	f := seedAttemptFixture(t, db)

	admin := &util.Claims{UserID: "admin", Email: "admin@test.com", Role: model.Admin}

	// 进行中的考试不能撤回发布
	if _, err := f.exams.Unpublish(f.exam.ID, admin); err == nil {
		t.Fatal("unpublish of running exam succeeded, want ValidationError")
	}

	err := db.Model(&model.Exam{}).Where("id = ?", f.exam.ID).Update("status", model.ExamPublished).Error
	if err != nil {
		t.Fatalf("reset status: %v", err)
	}
	updated, err := f.exams.Unpublish(f.exam.ID, admin)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if updated.Status != model.ExamDraft {
		t.Errorf("status = %s, want DRAFT", updated.Status)
	}

	var reloaded model.Exam
	if err := db.First(&reloaded, "id = ?", f.exam.ID).Error; err != nil {
		t.Fatalf("reload exam: %v", err)
	}
	if reloaded.Status != model.ExamDraft {
		t.Errorf("stored status = %s, want DRAFT", reloaded.Status)
	}
}
