package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository 练习提交记录，只提供追加与查询
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Insert(ctx context.Context, attempt *model.PracticeAttempt) (string, error) {
	if err := r.DB.WithContext(ctx).Create(attempt).Error; err != nil {
		return "", storeErr("insert attempt", err)
	}
	return attempt.ID, nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.PracticeAttempt, error) {
	var a model.PracticeAttempt
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", id), &a, "find attempt")
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// FindByStudent 按完成时间升序返回，subject 为空表示不过滤
func (r *AttemptRepository) FindByStudent(ctx context.Context, studentID string, subject model.Subject) ([]model.PracticeAttempt, error) {
	return r.FindByStudents(ctx, []string{studentID}, subject)
}

func (r *AttemptRepository) FindByStudents(ctx context.Context, studentIDs []string, subject model.Subject) ([]model.PracticeAttempt, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	tx := r.DB.WithContext(ctx).Where("student_id IN ?", studentIDs)
	if subject != "" {
		tx = tx.Where("subject = ?", subject)
	}
	var attempts []model.PracticeAttempt
	if err := tx.Order("completed_at ASC").Find(&attempts).Error; err != nil {
		return nil, storeErr("find attempts", err)
	}
	return attempts, nil
}
