package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// 考试发布事件的 Redis 频道
const ExamPublishedChannel = "exam.events.published"
