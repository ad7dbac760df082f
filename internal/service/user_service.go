package service

import (
	"context"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
)

// UpdateProfileRequest 为空的字段保持不变
type UpdateProfileRequest struct {
	Name          *string  `json:"name"`
	GradeLevel    *string  `json:"grade_level"`
	Subjects      []string `json:"subjects"`
	LearningGoals []string `json:"learning_goals"`
	StudyHours    *int     `json:"preferred_study_hours"`
}

// UserService 处理用户档案相关的业务逻辑
type UserService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository
}

func NewUserService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
	}
}

func (s *UserService) GetStudentProfile(ctx context.Context, userID string) (*model.StudentProfile, error) {
	profile, err := s.ProfileRepo.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}
	return profile, nil
}

func (s *UserService) UpdateStudentProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.StudentProfile, error) {
	profile, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, util.InvalidInput("name must not be empty")
		}
		profile.Name = *req.Name
	}
	if req.GradeLevel != nil {
		grade, ok := model.ParseGradeLevel(*req.GradeLevel)
		if !ok {
			return nil, util.InvalidInput("unknown grade level %q", *req.GradeLevel)
		}
		profile.GradeLevel = grade
	}
	if req.Subjects != nil {
		subjects := make([]string, 0, len(req.Subjects))
		for _, raw := range req.Subjects {
			subject, ok := model.ParseSubject(raw)
			if !ok {
				return nil, util.InvalidInput("unknown subject %q", raw)
			}
			subjects = append(subjects, string(subject))
		}
		profile.Subjects = subjects
	}
	if req.LearningGoals != nil {
		profile.LearningGoals = req.LearningGoals
	}
	if req.StudyHours != nil {
		if *req.StudyHours < 0 || *req.StudyHours > 24 {
			return nil, util.InvalidInput("preferred_study_hours must be between 0 and 24")
		}
		profile.StudyHours = *req.StudyHours
	}

	if err := s.ProfileRepo.UpdateStudentProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetTeacherProfile(ctx context.Context, userID string) (*model.TeacherProfile, error) {
	profile, err := s.ProfileRepo.GetTeacherProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrProfileNotFound
	}
	return profile, nil
}
