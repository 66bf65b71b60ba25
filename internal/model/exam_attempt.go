package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted  AttemptStatus = "SUBMITTED"
	AttemptTerminated AttemptStatus = "TERMINATED"
)

// ExamAttempt 候选人对一场考试的唯一作答记录。
// 标量快照字段在开考时从 Exam 拷贝，之后试卷或题库的修改不再影响该次作答。
// swagger:model ExamAttempt
type ExamAttempt struct {
	UUIDBase
	UserID string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_attempt_user_exam" json:"userId"`
	ExamID string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_attempt_user_exam;index" json:"examId"`
	Status AttemptStatus `gorm:"type:enum('IN_PROGRESS','SUBMITTED','TERMINATED');default:'IN_PROGRESS'" json:"status"`

	// 开考时的试卷快照
	ExamTitle       string     `gorm:"size:255" json:"examTitle"`
	ExamDescription string     `gorm:"type:text" json:"examDescription"`
	PassScore       int        `json:"passScore"`
	StartAt         *time.Time `json:"startAt,omitempty"`
	EndAt           *time.Time `json:"endAt,omitempty"`

	Score      *int       `json:"score"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	Questions []ExamAttemptQuestion `gorm:"foreignKey:AttemptID" json:"questions,omitempty"`
	User      *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Exam      *Exam                 `gorm:"foreignKey:ExamID" json:"-"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

func (a *ExamAttempt) Finished() bool {
	return a.FinishedAt != nil
}
