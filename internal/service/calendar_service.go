package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"strings"
	"time"
)

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	EventType   string    `json:"event_type"`
	Subject     string    `json:"subject"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

type CalendarService struct {
	Events CalendarStore
}

func NewCalendarService(events CalendarStore) *CalendarService {
	return &CalendarService{Events: events}
}

func (s *CalendarService) CreateEvent(ctx context.Context, studentID string, req CreateEventRequest) (*model.CalendarEvent, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, util.InvalidInput("title is required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, util.InvalidInput("end_time must be after start_time")
	}
	subject, err := parseOptionalSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		eventType = "study"
	}

	event := &model.CalendarEvent{
		StudentID:   studentID,
		Title:       title,
		Description: req.Description,
		EventType:   eventType,
		Subject:     subject,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := s.Events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents from/to 为空时不限制
func (s *CalendarService) ListEvents(ctx context.Context, studentID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, util.InvalidInput("end date must not be before start date")
	}
	return s.Events.ListByStudent(ctx, studentID, from, to)
}

// TodayEvents 当天开始的日程
func (s *CalendarService) TodayEvents(ctx context.Context, studentID string, now time.Time) ([]model.CalendarEvent, error) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	return s.Events.ListByStudent(ctx, studentID, &start, &end)
}
