package model

import "time"

type CalendarEvent struct {
	UUIDBase
	StudentID   string    `gorm:"size:36;index;not null" json:"student_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EventType   string    `gorm:"size:32" json:"event_type"`
	Subject     Subject   `gorm:"size:32" json:"subject,omitempty"`
	StartTime   time.Time `gorm:"index" json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Completed   bool      `gorm:"default:false" json:"completed"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
