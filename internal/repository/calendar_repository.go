package repository

import (
	"context"
	"projectk_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CalendarRepository struct {
	DB *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) Create(ctx context.Context, e *model.CalendarEvent) error {
	return storeErr("create event", r.DB.WithContext(ctx).Create(e).Error)
}

// ListByStudent 按开始时间升序，from/to 为空时不限
func (r *CalendarRepository) ListByStudent(ctx context.Context, studentID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	tx := r.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if from != nil {
		tx = tx.Where("start_time >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("start_time < ?", *to)
	}
	var events []model.CalendarEvent
	if err := tx.Order("start_time ASC").Find(&events).Error; err != nil {
		return nil, storeErr("list events", err)
	}
	return events, nil
}
