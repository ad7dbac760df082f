package service

import (
	"context"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=6"`
	Role       string   `json:"role"`
	GradeLevel string   `json:"grade_level"`
	SchoolName string   `json:"school_name"`
	Subjects   []string `json:"subjects"`
}

type LoginResult struct {
	Token string      `json:"access_token"`
	Type  string      `json:"token_type"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (req *RegisterRequest) normalize() (model.UserRole, model.GradeLevel, []string, error) {
	role := model.Student
	if req.Role != "" {
		role = model.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	}
	if !role.Valid() {
		return "", "", nil, util.InvalidInput("unknown role %q", req.Role)
	}

	var grade model.GradeLevel
	if req.GradeLevel != "" {
		var ok bool
		if grade, ok = model.ParseGradeLevel(req.GradeLevel); !ok {
			return "", "", nil, util.InvalidInput("unknown grade level %q", req.GradeLevel)
		}
	}

	subjects := make([]string, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		subject, ok := model.ParseSubject(s)
		if !ok {
			return "", "", nil, util.InvalidInput("unknown subject %q", s)
		}
		subjects = append(subjects, string(subject))
	}
	return role, grade, subjects, nil
}

// Register 创建用户并同时创建对应角色的档案
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	role, grade, subjects, err := req.normalize()
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       req.Name,
		Email:      email,
		Password:   string(hashedPassword),
		Role:       role,
		GradeLevel: grade,
		SchoolName: req.SchoolName,
		Active:     true,
	}
	user.ID = model.GenerateUUID()

	var profile interface{}
	if role == model.Teacher {
		profile = &model.TeacherProfile{
			UserID:         user.ID,
			Name:           user.Name,
			Email:          email,
			SchoolName:     req.SchoolName,
			SubjectsTaught: subjects,
		}
	} else {
		profile = &model.StudentProfile{
			UserID:     user.ID,
			Name:       user.Name,
			Email:      email,
			GradeLevel: grade,
			Subjects:   subjects,
			Level:      1,
		}
	}

	if err := s.UserRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Type: "bearer", User: user}, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil, util.ErrUserNotFound
	}

	user, err := s.UserRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}
