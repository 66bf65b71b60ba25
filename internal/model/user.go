package model

type UserRole string

const (
	Admin     UserRole = "ADMIN"
	Examiner  UserRole = "EXAMINER"
	Candidate UserRole = "CANDIDATE"
)

// swagger:model User
type User struct {
	UUIDBase
	Email        string   `gorm:"size:100;unique;not null" json:"email"`
	Password     string   `gorm:"size:100;not null" json:"-"`
	Role         UserRole `gorm:"type:enum('ADMIN','EXAMINER','CANDIDATE');default:'CANDIDATE'" json:"role"`
	RefreshToken string   `gorm:"size:255" json:"-"`
}

func (User) TableName() string {
	return "users"
}
