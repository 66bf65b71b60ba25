package model

// ExamAttemptQuestion 开考时的题目快照，题库后续编辑不回写
// swagger:model ExamAttemptQuestion
type ExamAttemptQuestion struct {
	UUIDBase
	AttemptID  string      `gorm:"type:varchar(36);index;not null" json:"attemptId"`
	QuestionID string      `gorm:"type:varchar(36);not null" json:"questionId"`
	Order      int         `json:"order"`
	Score      int         `json:"score"`
	Content    string      `gorm:"type:text" json:"content"`
	Tags       StringArray `gorm:"type:json" json:"tags"`

	Options []ExamAttemptOption `gorm:"foreignKey:AttemptQuestionID" json:"options,omitempty"`
}

func (ExamAttemptQuestion) TableName() string {
	return "exam_attempt_questions"
}
