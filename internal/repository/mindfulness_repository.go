package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

type MindfulnessRepository struct {
	DB *gorm.DB
}

func NewMindfulnessRepository(db *gorm.DB) *MindfulnessRepository {
	return &MindfulnessRepository{DB: db}
}

func (r *MindfulnessRepository) Create(ctx context.Context, s *model.MindfulnessSession) error {
	return storeErr("create mindfulness session", r.DB.WithContext(ctx).Create(s).Error)
}

func (r *MindfulnessRepository) ListByStudent(ctx context.Context, studentID string) ([]model.MindfulnessSession, error) {
	var sessions []model.MindfulnessSession
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("completed_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, storeErr("list mindfulness sessions", err)
	}
	return sessions, nil
}
