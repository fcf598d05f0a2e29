package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User is the engine's view of an account. Accounts are owned by the portal's
// account system; UserID is the external id carried in bearer tokens.
// swagger:model User
type User struct {
	BaseModel
	UserID      string     `gorm:"size:64;uniqueIndex;not null" json:"userId"`
	FullName    string     `gorm:"size:100;not null" json:"fullName"`
	Email       string     `gorm:"size:100" json:"email"`
	Role        UserRole   `gorm:"size:20;default:'student';index" json:"role"`
	Subject     string     `gorm:"size:255" json:"subject"`      // teacher's declared subject(s)
	CurrentYear int        `gorm:"default:0" json:"currentYear"` // student's curriculum year
	LastSeenAt  *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsTeacher() bool {
	return u.Role == Teacher || u.Role == Admin
}

func (u *User) IsStudent() bool {
	return u.Role == Student
}
