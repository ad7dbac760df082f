package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Teacher
}

// swagger:model User
type User struct {
	UUIDBase
	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"size:100;not null" json:"-"`
	Role       UserRole   `gorm:"type:enum('student','teacher');default:'student'" json:"role"`
	GradeLevel GradeLevel `gorm:"size:8" json:"grade_level,omitempty"`
	SchoolName string     `gorm:"size:200" json:"school_name,omitempty"`
	Active     bool       `gorm:"default:true" json:"active"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// StudentProfile 学生档案，XP 与等级由 XP 引擎维护
type StudentProfile struct {
	UUIDBase
	UserID         string                      `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Name           string                      `gorm:"size:100" json:"name"`
	Email          string                      `gorm:"size:100" json:"email"`
	GradeLevel     GradeLevel                  `gorm:"size:8" json:"grade_level"`
	Subjects       datatypes.JSONSlice[string] `gorm:"type:json" json:"subjects"`
	LearningGoals  datatypes.JSONSlice[string] `gorm:"type:json" json:"learning_goals"`
	StudyHours     int                         `gorm:"default:0" json:"preferred_study_hours"`
	TotalXP        int                         `gorm:"default:0;index" json:"total_xp"`
	Level          int                         `gorm:"default:1" json:"level"`
	StreakDays     int                         `gorm:"default:0" json:"streak_days"`
	TotalStudyTime int                         `gorm:"default:0" json:"total_study_time"`
	LastActive     *time.Time                  `json:"last_active,omitempty"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type TeacherProfile struct {
	UUIDBase
	UserID         string                      `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Name           string                      `gorm:"size:100" json:"name"`
	Email          string                      `gorm:"size:100" json:"email"`
	SchoolName     string                      `gorm:"size:200" json:"school_name"`
	SubjectsTaught datatypes.JSONSlice[string] `gorm:"type:json" json:"subjects_taught"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

// NextStreak 根据上次活跃日期计算连续学习天数：同一天不变，隔天加一，中断后重新计为 1
func NextStreak(lastActive *time.Time, streak int, now time.Time) int {
	if lastActive == nil || streak <= 0 {
		return 1
	}
	y1, m1, d1 := lastActive.In(now.Location()).Date()
	last := time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location())
	y2, m2, d2 := now.Date()
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location())

	switch {
	case !last.Before(today):
		return streak
	case last.AddDate(0, 0, 1).Equal(today):
		return streak + 1
	default:
		return 1
	}
}
