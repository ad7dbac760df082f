package service

import (
	"context"
	"projectk_backend/internal/model"
	"time"
)

// 以下接口由 repository 包实现，测试中以内存实现替换

type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	FindBySubjectAndTopics(ctx context.Context, subject model.Subject, topics []string) ([]model.Question, error)
	CreateBatch(ctx context.Context, questions []model.Question) error
}

type AttemptStore interface {
	Insert(ctx context.Context, attempt *model.PracticeAttempt) (string, error)
	FindByID(ctx context.Context, id string) (*model.PracticeAttempt, error)
	FindByStudent(ctx context.Context, studentID string, subject model.Subject) ([]model.PracticeAttempt, error)
	FindByStudents(ctx context.Context, studentIDs []string, subject model.Subject) ([]model.PracticeAttempt, error)
}

type ProfileStore interface {
	GetStudentProfile(ctx context.Context, userID string) (*model.StudentProfile, error)
	FindStudentProfiles(ctx context.Context, userIDs []string) ([]model.StudentProfile, error)
	UpdateXP(ctx context.Context, userID string, totalXP, level int) error
}

type RosterProvider interface {
	FindClassByID(ctx context.Context, classID string) (*model.ClassRoom, error)
	GetStudentIDsForClass(ctx context.Context, classID string) ([]string, error)
	GetClassesForTeacher(ctx context.Context, teacherID string) ([]model.ClassRoster, error)
}

type MessageStore interface {
	FindByStudents(ctx context.Context, studentIDs []string) ([]model.ChatMessage, error)
}

type MindfulnessStore interface {
	Create(ctx context.Context, s *model.MindfulnessSession) error
	ListByStudent(ctx context.Context, studentID string) ([]model.MindfulnessSession, error)
}

type CalendarStore interface {
	Create(ctx context.Context, e *model.CalendarEvent) error
	ListByStudent(ctx context.Context, studentID string, from, to *time.Time) ([]model.CalendarEvent, error)
}
