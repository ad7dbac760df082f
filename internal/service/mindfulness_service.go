package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

type MindfulnessRequest struct {
	ActivityType string `json:"activity_type" binding:"required"`
	Duration     int    `json:"duration"`
	MoodBefore   int    `json:"mood_before"`
	MoodAfter    int    `json:"mood_after"`
	Notes        string `json:"notes"`
}

type MindfulnessResult struct {
	Session  *model.MindfulnessSession `json:"session"`
	XPEarned int                       `json:"xp_earned"`
	XPEvents []XPEvent                 `json:"xp_events,omitempty"`
}

type MindfulnessService struct {
	Sessions MindfulnessStore
	XP       *XPService
	now      func() time.Time
}

func NewMindfulnessService(sessions MindfulnessStore, xp *XPService) *MindfulnessService {
	return &MindfulnessService{Sessions: sessions, XP: xp, now: time.Now}
}

func validMood(m int) bool {
	return m == 0 || (m >= 1 && m <= 10)
}

// RecordSession 情绪值为 0 表示未填写
func (s *MindfulnessService) RecordSession(ctx context.Context, studentID string, req MindfulnessRequest) (*MindfulnessResult, error) {
	activity := strings.TrimSpace(req.ActivityType)
	if activity == "" {
		return nil, util.InvalidInput("activity_type is required")
	}
	if req.Duration <= 0 {
		return nil, util.InvalidInput("duration must be positive")
	}
	if !validMood(req.MoodBefore) || !validMood(req.MoodAfter) {
		return nil, util.InvalidInput("mood must be between 1 and 10")
	}

	session := &model.MindfulnessSession{
		StudentID:       studentID,
		ActivityType:    activity,
		DurationMinutes: req.Duration,
		MoodBefore:      req.MoodBefore,
		MoodAfter:       req.MoodAfter,
		Notes:           req.Notes,
		CompletedAt:     s.now(),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	result := &MindfulnessResult{Session: session}
	award, err := s.XP.AwardXP(ctx, studentID, XPMindfulness, "mindfulness")
	if err != nil {
		logger.Log.Error("award mindfulness xp failed", zap.String("studentId", studentID), zap.Error(err))
		return result, nil
	}
	result.XPEarned = award.Awarded
	result.XPEvents = award.Events
	return result, nil
}

func (s *MindfulnessService) History(ctx context.Context, studentID string) ([]model.MindfulnessSession, error) {
	return s.Sessions.ListByStudent(ctx, studentID)
}
