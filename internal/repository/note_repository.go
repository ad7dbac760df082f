package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *model.StudyNote) error {
	return storeErr("create note", r.DB.WithContext(ctx).Create(n).Error)
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*model.StudyNote, error) {
	var n model.StudyNote
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", id), &n, "find note")
	if err != nil || !found {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) ListByStudent(ctx context.Context, studentID string, subject model.Subject, favoritesOnly bool) ([]model.StudyNote, error) {
	tx := r.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if subject != "" {
		tx = tx.Where("subject = ?", subject)
	}
	if favoritesOnly {
		tx = tx.Where("is_favorite = ?", true)
	}
	var notes []model.StudyNote
	if err := tx.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, storeErr("list notes", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *model.StudyNote) error {
	return storeErr("update note", r.DB.WithContext(ctx).Save(n).Error)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return storeErr("delete note", r.DB.WithContext(ctx).Delete(&model.StudyNote{}, "id = ?", id).Error)
}
