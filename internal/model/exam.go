package model

import "time"

type ExamStatus string

const (
	ExamDraft     ExamStatus = "DRAFT"
	ExamPublished ExamStatus = "PUBLISHED"
	ExamRunning   ExamStatus = "RUNNING"
	ExamEnded     ExamStatus = "ENDED"
	ExamArchived  ExamStatus = "ARCHIVED"
)

// swagger:model Exam
type Exam struct {
	UUIDBase
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	PassScore   int         `gorm:"default:0" json:"passScore"`
	Assignees   StringArray `gorm:"type:json" json:"assignees"`
	StartAt     *time.Time  `json:"startAt,omitempty"`
	EndAt       *time.Time  `json:"endAt,omitempty"`
	Status      ExamStatus  `gorm:"type:enum('DRAFT','PUBLISHED','RUNNING','ENDED','ARCHIVED');default:'DRAFT';index" json:"status"`
	CreatedByID string      `gorm:"type:varchar(36);index" json:"createdById"`
	UpdatedByID string      `gorm:"type:varchar(36)" json:"updatedById"`

	Questions []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
	CreatedBy *User          `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// CanTransitionTo 管理员驱动的状态迁移规则；时间驱动的迁移由 Scheduler 批量执行
func (e *Exam) CanTransitionTo(target ExamStatus) bool {
	switch target {
	case ExamPublished:
		return e.Status == ExamDraft
	case ExamDraft:
		return e.Status == ExamPublished // unpublish
	case ExamArchived:
		return e.Status == ExamEnded
	default:
		return false
	}
}

func (e *Exam) Deletable() bool {
	return e.Status == ExamDraft || e.Status == ExamArchived
}

func (e *Exam) Editable() bool {
	return e.Status != ExamEnded
}

// AssignedTo 空名单表示对任何候选人开放
func (e *Exam) AssignedTo(email string) bool {
	return len(e.Assignees) == 0 || e.Assignees.Contains(email)
}
