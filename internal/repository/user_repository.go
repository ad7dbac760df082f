package repository

import (
	"context"
	"projectk_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateWithProfile 在同一事务中创建用户及其档案
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *model.User, profile interface{}) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Create(profile).Error
	})
	return storeErr("create user", err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", id), &user, "find user")
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	found, err := first(r.DB.WithContext(ctx).Where("email = ?", email), &user, "find user by email")
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
	return storeErr("update last login", err)
}
