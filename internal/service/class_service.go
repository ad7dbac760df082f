package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"strings"

	"github.com/google/uuid"
)

const (
	joinCodeLength   = 6
	joinCodeAttempts = 5
)

type CreateClassRequest struct {
	ClassName   string `json:"class_name" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	GradeLevel  string `json:"grade_level"`
	Description string `json:"description"`
}

type ClassService struct {
	ClassRepo *repository.ClassRepository
}

func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{ClassRepo: classRepo}
}

func newJoinCode() string {
	code := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(code[:joinCodeLength])
}

// CreateClass 生成不重复的加入码，冲突时重试
func (s *ClassService) CreateClass(ctx context.Context, teacherID string, req CreateClassRequest) (*model.ClassRoom, error) {
	subject, ok := model.ParseSubject(req.Subject)
	if !ok {
		return nil, util.InvalidInput("unknown subject %q", req.Subject)
	}
	var grade model.GradeLevel
	if req.GradeLevel != "" {
		if grade, ok = model.ParseGradeLevel(req.GradeLevel); !ok {
			return nil, util.InvalidInput("unknown grade level %q", req.GradeLevel)
		}
	}

	var code string
	for i := 0; i < joinCodeAttempts; i++ {
		candidate := newJoinCode()
		existing, err := s.ClassRepo.FindByJoinCode(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, fmt.Errorf("%w: join code collisions", util.ErrStoreUnavailable)
	}

	class := &model.ClassRoom{
		JoinCode:    code,
		TeacherID:   teacherID,
		Subject:     subject,
		ClassName:   req.ClassName,
		GradeLevel:  grade,
		Description: req.Description,
		Active:      true,
	}
	if err := s.ClassRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) TeacherClasses(ctx context.Context, teacherID string) ([]model.ClassRoom, error) {
	return s.ClassRepo.FindByTeacher(ctx, teacherID)
}

func (s *ClassService) StudentClasses(ctx context.Context, studentID string) ([]model.ClassRoom, error) {
	return s.ClassRepo.FindByStudent(ctx, studentID)
}

// JoinClass 重复加入同一班级不会报错
func (s *ClassService) JoinClass(ctx context.Context, studentID, joinCode string) (*model.ClassRoom, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" {
		return nil, util.InvalidInput("join_code is required")
	}
	class, err := s.ClassRepo.FindByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, util.ErrClassNotFound
	}
	if err := s.ClassRepo.AddMember(ctx, class.ID, studentID); err != nil {
		return nil, err
	}
	return class, nil
}
