package model

// ExamAttemptOption 选项快照，originalOptionId 指向题库里的原始选项
// swagger:model ExamAttemptOption
type ExamAttemptOption struct {
	UUIDBase
	AttemptQuestionID string `gorm:"type:varchar(36);index;not null" json:"attemptQuestionId"`
	OriginalOptionID  string `gorm:"type:varchar(36);not null" json:"originalOptionId"`
	Content           string `gorm:"type:text" json:"content"`
	IsCorrect         bool   `gorm:"default:false" json:"-"`
	IsSelected        bool   `gorm:"default:false" json:"isSelected"`
}

func (ExamAttemptOption) TableName() string {
	return "exam_attempt_options"
}
