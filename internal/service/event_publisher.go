package service

import (
	"context"
	"encoding/json"
	"time"

	"exam_admin_backend/internal/util"
	"exam_admin_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ExamPublishedEvent 考试发布后向 Redis 频道广播的事件体
type ExamPublishedEvent struct {
	ExamID      string    `json:"examId"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
}

// EventPublisher 事件发布是尽力而为：发送失败只记日志，不影响主流程
type EventPublisher struct {
	Redis *redis.Client
}

func NewEventPublisher(rdb *redis.Client) *EventPublisher {
	return &EventPublisher{Redis: rdb}
}

func (p *EventPublisher) PublishExamPublished(ctx context.Context, event ExamPublishedEvent) {
	if p.Redis == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("序列化考试发布事件失败", zap.Error(err))
		return
	}

	if err := p.Redis.Publish(ctx, util.ExamPublishedChannel, payload).Err(); err != nil {
		logger.Log.Warn("考试发布事件发送失败",
			zap.String("examId", event.ExamID),
			zap.Error(err))
	}
}
