package model

type NotificationType string

const (
	NotificationSystem         NotificationType = "system"
	NotificationTeacherMessage NotificationType = "teacher_message"
	NotificationReminder       NotificationType = "reminder"
	NotificationAchievement    NotificationType = "achievement"
)

type Notification struct {
	UUIDBase
	RecipientID string           `gorm:"size:36;index;not null" json:"recipient_id"`
	SenderID    string           `gorm:"size:36" json:"sender_id,omitempty"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Message     string           `gorm:"type:text" json:"message"`
	Type        NotificationType `gorm:"size:32;default:'system'" json:"notification_type"`
	Read        bool             `gorm:"column:is_read;default:false;index" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
