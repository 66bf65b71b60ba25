package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 需要真实 MySQL：EXAM_ADMIN_INTEGRATION=1 且可选 EXAM_ADMIN_TEST_DSN
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("EXAM_ADMIN_INTEGRATION") != "1" {
		t.Skip("set EXAM_ADMIN_INTEGRATION=1 to run integration tests")
	}

	dsn := os.Getenv("EXAM_ADMIN_TEST_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/exam_admin_test?charset=utf8mb4&parseTime=true&loc=Local"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Option{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamAttempt{},
		&model.ExamAttemptQuestion{},
		&model.ExamAttemptOption{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	logger.Log = zap.NewNop()
	return db
}

func TestSchedulerSweep_DBIntegration(t *testing.T) {
	db := openTestDB(t)

	suffix := time.Now().UnixNano()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	user := &model.User{
		Email:    fmt.Sprintf("itest-sweep-%d@test.com", suffix),
		Password: "x",
		Role:     model.Candidate,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(user) })

	makeExam := func(status model.ExamStatus, startAt, endAt *time.Time) *model.Exam {
		exam := &model.Exam{
			Title:       fmt.Sprintf("ITEST sweep %d %s", suffix, status),
			Status:      status,
			StartAt:     startAt,
			EndAt:       endAt,
			CreatedByID: user.ID,
			UpdatedByID: user.ID,
		}
		if err := db.Create(exam).Error; err != nil {
			t.Fatalf("seed exam: %v", err)
		}
		t.Cleanup(func() { db.Unscoped().Delete(exam) })
		return exam
	}

	due := makeExam(model.ExamPublished, &past, &future)
	notDue := makeExam(model.ExamPublished, &future, nil)
	running := makeExam(model.ExamRunning, &past, &past)
	draft := makeExam(model.ExamDraft, &past, &past)
	extended := makeExam(model.ExamRunning, &past, &future)

	makeAttempt := func(examID string, snapshotEnd *time.Time) *model.ExamAttempt {
		attempt := &model.ExamAttempt{
			UserID:    user.ID,
			ExamID:    examID,
			Status:    model.AttemptInProgress,
			EndAt:     snapshotEnd,
			StartedAt: past,
		}
		if err := db.Create(attempt).Error; err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
		t.Cleanup(func() { db.Unscoped().Delete(attempt) })
		return attempt
	}

	attempt := makeAttempt(running.ID, &past)
	// 截止时间被延长的考试：快照里仍是旧的过期时间，不应被强制交卷
	staleAttempt := makeAttempt(extended.ID, &past)

	scheduler := NewSchedulerService(db)
	scheduler.Now = func() time.Time { return now }

	result := scheduler.Sweep()

	if result.Started < 1 {
		t.Errorf("Started = %d, want >= 1", result.Started)
	}
	if result.Ended < 1 {
		t.Errorf("Ended = %d, want >= 1", result.Ended)
	}
	if result.AutoSubmitted < 1 {
		t.Errorf("AutoSubmitted = %d, want >= 1", result.AutoSubmitted)
	}

	assertStatus := func(id string, expect model.ExamStatus) {
		var exam model.Exam
		if err := db.First(&exam, "id = ?", id).Error; err != nil {
			t.Fatalf("reload exam: %v", err)
		}
		if exam.Status != expect {
			t.Errorf("exam %s status = %s, want %s", id, exam.Status, expect)
		}
	}
	assertStatus(due.ID, model.ExamRunning)
	assertStatus(notDue.ID, model.ExamPublished)
	assertStatus(running.ID, model.ExamEnded)
	assertStatus(draft.ID, model.ExamDraft)
	assertStatus(extended.ID, model.ExamRunning)

	var reloaded model.ExamAttempt
	if err := db.First(&reloaded, "id = ?", attempt.ID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if reloaded.Status != model.AttemptSubmitted {
		t.Errorf("attempt status = %s, want SUBMITTED", reloaded.Status)
	}
	if reloaded.Score == nil || *reloaded.Score != 0 {
		t.Errorf("attempt score = %v, want 0", reloaded.Score)
	}
	if reloaded.FinishedAt == nil {
		t.Error("attempt finishedAt is nil, want set")
	}

	var stale model.ExamAttempt
	if err := db.First(&stale, "id = ?", staleAttempt.ID).Error; err != nil {
		t.Fatalf("reload stale attempt: %v", err)
	}
	if stale.Status != model.AttemptInProgress {
		t.Errorf("attempt on extended exam status = %s, want IN_PROGRESS", stale.Status)
	}

	// 再跑一轮应当是幂等的
	again := scheduler.Sweep()
	if again.Started != 0 || again.Ended != 0 || again.AutoSubmitted != 0 {
		t.Errorf("second sweep not idempotent: %+v", again)
	}
}
