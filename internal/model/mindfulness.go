package model

import "time"

type MindfulnessSession struct {
	UUIDBase
	StudentID       string    `gorm:"size:36;index;not null" json:"student_id"`
	ActivityType    string    `gorm:"size:50;not null" json:"activity_type"`
	DurationMinutes int       `json:"duration"`
	MoodBefore      int       `json:"mood_before,omitempty"`
	MoodAfter       int       `json:"mood_after,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CompletedAt     time.Time `gorm:"index" json:"completed_at"`
}

func (MindfulnessSession) TableName() string {
	return "mindfulness_sessions"
}
