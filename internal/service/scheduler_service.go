package service

import (
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/pkg/logger"
	"exam_admin_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchedulerService 周期性扫描：按时间推进考试状态，并强制交卷超时的作答。
// 所有迁移均为条件化批量 UPDATE，多实例并发执行是幂等的。
type SchedulerService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSchedulerService(db *gorm.DB) *SchedulerService {
	return &SchedulerService{
		DB:  db,
		Now: time.Now,
	}
}

// SweepResult 一次扫描各阶段影响的行数
type SweepResult struct {
	Started       int64
	Ended         int64
	AutoSubmitted int64
}

// Sweep 执行一轮状态推进，各阶段失败互不阻塞
func (s *SchedulerService) Sweep() SweepResult {
	now := s.Now()
	var result SweepResult

	started, err := s.startDueExams(now)
	if err != nil {
		logger.Log.Error("推进 PUBLISHED -> RUNNING 失败", zap.Error(err))
	}
	result.Started = started

	ended, err := s.endDueExams(now)
	if err != nil {
		logger.Log.Error("推进 RUNNING -> ENDED 失败", zap.Error(err))
	}
	result.Ended = ended

	submitted, err := s.autoSubmitExpiredAttempts(now)
	if err != nil {
		logger.Log.Error("超时作答自动交卷失败", zap.Error(err))
	}
	result.AutoSubmitted = submitted

	if result.Started > 0 || result.Ended > 0 || result.AutoSubmitted > 0 {
		logger.Log.Info("考试状态扫描完成",
			zap.Int64("started", result.Started),
			zap.Int64("ended", result.Ended),
			zap.Int64("autoSubmitted", result.AutoSubmitted))
	}
	return result
}

// startDueExams 开考时间已到（含边界）的已发布考试进入进行中
func (s *SchedulerService) startDueExams(now time.Time) (int64, error) {
	tx := s.DB.Model(&model.Exam{}).
		Where("status = ? AND start_at IS NOT NULL AND start_at <= ?", model.ExamPublished, now).
		Update("status", model.ExamRunning)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected > 0 {
		monitoring.ExamTransitionCounter.WithLabelValues("published_to_running").Add(float64(tx.RowsAffected))
	}
	return tx.RowsAffected, nil
}

// endDueExams 结束时间已到（含边界）的进行中考试进入已结束
func (s *SchedulerService) endDueExams(now time.Time) (int64, error) {
	tx := s.DB.Model(&model.Exam{}).
		Where("status = ? AND end_at IS NOT NULL AND end_at <= ?", model.ExamRunning, now).
		Update("status", model.ExamEnded)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected > 0 {
		monitoring.ExamTransitionCounter.WithLabelValues("running_to_ended").Add(float64(tx.RowsAffected))
	}
	return tx.RowsAffected, nil
}

// autoSubmitExpiredAttempts 所属考试结束时间已过的进行中作答记 0 分交卷。
// 以考试表的 end_at 为准而不是作答快照：截止时间中途被调整时快照是旧值。
func (s *SchedulerService) autoSubmitExpiredAttempts(now time.Time) (int64, error) {
	expiredExams := s.DB.Model(&model.Exam{}).
		Select("id").
		Where("end_at IS NOT NULL AND end_at <= ?", now)
	tx := s.DB.Model(&model.ExamAttempt{}).
		Where("status = ? AND exam_id IN (?)", model.AttemptInProgress, expiredExams).
		Updates(map[string]interface{}{
			"status":      model.AttemptSubmitted,
			"score":       0,
			"finished_at": now,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected > 0 {
		monitoring.AutoSubmitCounter.Add(float64(tx.RowsAffected))
	}
	return tx.RowsAffected, nil
}
