package model

import "time"

// ExamQuestion 试卷与题库的绑定关系，携带题序与分值
// swagger:model ExamQuestion
type ExamQuestion struct {
	ExamID     string    `gorm:"primaryKey;type:varchar(36);uniqueIndex:idx_exam_question_order" json:"examId"`
	QuestionID string    `gorm:"primaryKey;type:varchar(36)" json:"questionId"`
	Order      int       `gorm:"not null;uniqueIndex:idx_exam_question_order" json:"order"`
	Score      int       `gorm:"default:1" json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
