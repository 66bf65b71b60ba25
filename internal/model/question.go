package model

// swagger:model Question
type Question struct {
	UUIDBase
	Content string      `gorm:"type:text;not null" json:"content"`
	Tags    StringArray `gorm:"type:json" json:"tags"`
	Options []Option    `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}
