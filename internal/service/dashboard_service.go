package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"time"
)

const dashboardRecentMessages = 5

type DashboardService struct {
	ProfileRepo      *repository.ProfileRepository
	ChatRepo         *repository.ChatRepository
	ClassRepo        *repository.ClassRepository
	NotificationRepo *repository.NotificationRepository
	Attempts         AttemptStore
	Calendar         *CalendarService
	now              func() time.Time
}

func NewDashboardService(
	profileRepo *repository.ProfileRepository,
	chatRepo *repository.ChatRepository,
	classRepo *repository.ClassRepository,
	notificationRepo *repository.NotificationRepository,
	attempts AttemptStore,
	calendar *CalendarService,
) *DashboardService {
	return &DashboardService{
		ProfileRepo:      profileRepo,
		ChatRepo:         chatRepo,
		ClassRepo:        classRepo,
		NotificationRepo: notificationRepo,
		Attempts:         attempts,
		Calendar:         calendar,
		now:              time.Now,
	}
}

type StudentStats struct {
	TotalMessages int     `json:"total_messages"`
	TotalTests    int     `json:"total_tests"`
	AverageScore  float64 `json:"average_score"`
	TotalXP       int     `json:"total_xp"`
	Level         int     `json:"level"`
	StreakDays    int     `json:"streak_days"`
}

type StudentDashboard struct {
	Profile             *model.StudentProfile `json:"profile"`
	Stats               StudentStats          `json:"stats"`
	RecentMessages      []model.ChatMessage   `json:"recent_messages"`
	TodayEvents         []model.CalendarEvent `json:"today_events"`
	UnreadNotifications int64                 `json:"unread_notifications"`
	Classes             []model.ClassRoom     `json:"classes"`
}

type TeacherDashboard struct {
	Profile       *model.TeacherProfile `json:"profile"`
	Classes       []model.ClassRoom     `json:"classes"`
	TotalClasses  int                   `json:"total_classes"`
	TotalStudents int                   `json:"total_students"`
}

func (s *DashboardService) StudentDashboard(ctx context.Context, studentID string) (*StudentDashboard, error) {
	profile, err := s.ProfileRepo.GetStudentProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}

	attempts, err := s.Attempts.FindByStudent(ctx, studentID, "")
	if err != nil {
		return nil, err
	}
	messages, err := s.ChatRepo.FindByStudents(ctx, []string{studentID})
	if err != nil {
		return nil, err
	}
	recent, err := s.ChatRepo.History(ctx, studentID, "", dashboardRecentMessages)
	if err != nil {
		return nil, err
	}
	events, err := s.Calendar.TodayEvents(ctx, studentID, s.now())
	if err != nil {
		return nil, err
	}
	unread, err := s.NotificationRepo.CountUnread(ctx, studentID)
	if err != nil {
		return nil, err
	}
	classes, err := s.ClassRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{
		Profile: profile,
		Stats: StudentStats{
			TotalMessages: len(messages),
			TotalTests:    len(attempts),
			AverageScore:  averageScore(attempts),
			TotalXP:       profile.TotalXP,
			Level:         profile.Level,
			StreakDays:    profile.StreakDays,
		},
		RecentMessages:      recent,
		TodayEvents:         events,
		UnreadNotifications: unread,
		Classes:             classes,
	}, nil
}

func (s *DashboardService) TeacherDashboard(ctx context.Context, teacherID string) (*TeacherDashboard, error) {
	profile, err := s.ProfileRepo.GetTeacherProfile(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}
	rosters, err := s.ClassRepo.GetClassesForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	classes := make([]model.ClassRoom, 0, len(rosters))
	var ids []string
	for _, r := range rosters {
		classes = append(classes, r.Class)
		ids = append(ids, r.StudentIDs...)
	}
	return &TeacherDashboard{
		Profile:       profile,
		Classes:       classes,
		TotalClasses:  len(classes),
		TotalStudents: len(dedupe(ids)),
	}, nil
}
