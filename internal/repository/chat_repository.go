package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	return storeErr("create chat session", r.DB.WithContext(ctx).Create(session).Error)
}

func (r *ChatRepository) FindSession(ctx context.Context, id string) (*model.ChatSession, error) {
	var s model.ChatSession
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", id), &s, "find chat session")
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *ChatRepository) ListSessions(ctx context.Context, studentID string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, storeErr("list chat sessions", err)
	}
	return sessions, nil
}

// CreateMessage 保存消息并刷新会话更新时间
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if msg.SessionID == "" {
			return nil
		}
		return tx.Model(&model.ChatSession{}).Where("id = ?", msg.SessionID).
			Update("updated_at", msg.Timestamp).Error
	})
	return storeErr("create chat message", err)
}

// RecentBySession 返回会话最近 limit 条消息，按时间升序
func (r *ChatRepository) RecentBySession(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, storeErr("list session messages", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// History 按时间倒序返回学生的对话记录
func (r *ChatRepository) History(ctx context.Context, studentID string, subject model.Subject, limit int) ([]model.ChatMessage, error) {
	tx := r.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if subject != "" {
		tx = tx.Where("subject = ?", subject)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var msgs []model.ChatMessage
	if err := tx.Order("timestamp DESC").Find(&msgs).Error; err != nil {
		return nil, storeErr("chat history", err)
	}
	return msgs, nil
}

// FindByStudents 分析用，一次读出一批学生的全部对话
func (r *ChatRepository) FindByStudents(ctx context.Context, studentIDs []string) ([]model.ChatMessage, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var msgs []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Select("id", "session_id", "student_id", "subject", "topic", "timestamp").
		Where("student_id IN ?", studentIDs).
		Order("timestamp ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, storeErr("find messages", err)
	}
	return msgs, nil
}
