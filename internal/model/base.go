package model

import (
	"time"
)

// BaseModel rows are hard-deleted so unique indexes only ever see live rows.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Quiz{},
		&Question{},
		&Option{},
		&Attempt{},
		&Answer{},
		&Assignment{},
		&Submission{},
		&Notification{},
	}
}
