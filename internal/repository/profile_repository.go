package repository

import (
	"context"
	"projectk_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) GetStudentProfile(ctx context.Context, userID string) (*model.StudentProfile, error) {
	var p model.StudentProfile
	found, err := first(r.DB.WithContext(ctx).Where("user_id = ?", userID), &p, "find student profile")
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindStudentProfiles(ctx context.Context, userIDs []string) ([]model.StudentProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []model.StudentProfile
	err := r.DB.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, storeErr("find student profiles", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) UpdateStudentProfile(ctx context.Context, p *model.StudentProfile) error {
	err := r.DB.WithContext(ctx).Model(p).Select("name", "grade_level", "subjects", "learning_goals", "study_hours").Updates(p).Error
	return storeErr("update student profile", err)
}

// UpdateXP 直接写入新的经验值与等级，并发时后写者覆盖
func (r *ProfileRepository) UpdateXP(ctx context.Context, userID string, totalXP, level int) error {
	err := r.DB.WithContext(ctx).Model(&model.StudentProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"total_xp": totalXP, "level": level}).Error
	return storeErr("update xp", err)
}

// UpdateLastActive 刷新最近活跃时间并维护连续学习天数
func (r *ProfileRepository) UpdateLastActive(ctx context.Context, userID string, at time.Time) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.StudentProfile
		found, err := first(tx.Select("id", "last_active", "streak_days").Where("user_id = ?", userID), &p, "find student profile")
		if err != nil || !found {
			return err
		}
		streak := model.NextStreak(p.LastActive, p.StreakDays, at)
		return tx.Model(&model.StudentProfile{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{"last_active": at, "streak_days": streak}).Error
	})
	return storeErr("update last active", err)
}

func (r *ProfileRepository) GetTeacherProfile(ctx context.Context, userID string) (*model.TeacherProfile, error) {
	var p model.TeacherProfile
	found, err := first(r.DB.WithContext(ctx).Where("user_id = ?", userID), &p, "find teacher profile")
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}
