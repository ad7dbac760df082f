package model

import "time"

type ChatSession struct {
	UUIDBase
	StudentID string  `gorm:"size:36;index;not null" json:"student_id"`
	Subject   Subject `gorm:"size:32" json:"subject"`
	Title     string  `gorm:"size:200" json:"title"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage 一问一答记为一条消息
type ChatMessage struct {
	UUIDBase
	SessionID   string    `gorm:"size:36;index" json:"session_id"`
	StudentID   string    `gorm:"size:36;index;not null" json:"student_id"`
	Subject     Subject   `gorm:"size:32;index" json:"subject"`
	UserMessage string    `gorm:"type:text" json:"user_message"`
	BotResponse string    `gorm:"type:text" json:"bot_response"`
	BotType     string    `gorm:"size:32" json:"bot_type"`
	Topic       string    `gorm:"size:100" json:"topic,omitempty"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
