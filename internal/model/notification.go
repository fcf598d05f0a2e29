package model

// swagger:model Notification
type Notification struct {
	BaseModel

	RecipientID uint   `gorm:"index;not null" json:"recipientId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Message     string `gorm:"type:text" json:"message"`
	IsRead      bool   `gorm:"default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
