package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const notificationPageSize = 50

type ClassMessageRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Rosters          RosterProvider
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, rosters RosterProvider) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo, Rosters: rosters}
}

// OnXPEvent 将升级与里程碑记录为成就通知，写入失败不影响经验发放
func (s *NotificationService) OnXPEvent(ctx context.Context, studentID string, event XPEvent) {
	n := &model.Notification{
		RecipientID: studentID,
		Type:        model.NotificationAchievement,
	}
	switch event.Type {
	case XPEventLevelUp:
		n.Title = fmt.Sprintf("Level %d reached", event.ToLevel)
		n.Message = fmt.Sprintf("You moved from level %d to level %d. Keep going!", event.FromLevel, event.ToLevel)
	case XPEventMilestone:
		n.Title = fmt.Sprintf("%d XP milestone", event.Milestone)
		n.Message = fmt.Sprintf("You have earned %d XP in total.", event.Milestone)
	default:
		return
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		logger.Log.Warn("store achievement notification failed", zap.String("studentId", studentID), zap.Error(err))
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	return s.NotificationRepo.ListByRecipient(ctx, userID, unreadOnly, notificationPageSize)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.NotificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	ok, err := s.NotificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotificationGone
	}
	return nil
}

// SendToClass 教师向自己班级的全部学生发送消息，返回发送人数
func (s *NotificationService) SendToClass(ctx context.Context, teacherID, classID string, req ClassMessageRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, util.InvalidInput("title is required")
	}
	class, err := s.Rosters.FindClassByID(ctx, classID)
	if err != nil {
		return 0, err
	}
	if class == nil || class.TeacherID != teacherID {
		return 0, util.ErrPermissionDenied
	}
	studentIDs, err := s.Rosters.GetStudentIDsForClass(ctx, classID)
	if err != nil {
		return 0, err
	}

	ns := make([]model.Notification, 0, len(studentIDs))
	for _, id := range dedupe(studentIDs) {
		ns = append(ns, model.Notification{
			RecipientID: id,
			SenderID:    teacherID,
			Title:       title,
			Message:     req.Message,
			Type:        model.NotificationTeacherMessage,
		})
	}
	if err := s.NotificationRepo.CreateBatch(ctx, ns); err != nil {
		return 0, err
	}
	return len(ns), nil
}
