package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClassRepository 班级与花名册
type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(ctx context.Context, class *model.ClassRoom) error {
	return storeErr("create class", r.DB.WithContext(ctx).Create(class).Error)
}

func (r *ClassRepository) FindClassByID(ctx context.Context, classID string) (*model.ClassRoom, error) {
	var class model.ClassRoom
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", classID), &class, "find class")
	if err != nil || !found {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByJoinCode(ctx context.Context, code string) (*model.ClassRoom, error) {
	var class model.ClassRoom
	found, err := first(r.DB.WithContext(ctx).Where("join_code = ? AND active = ?", code, true), &class, "find class by join code")
	if err != nil || !found {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByTeacher(ctx context.Context, teacherID string) ([]model.ClassRoom, error) {
	var classes []model.ClassRoom
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ? AND active = ?", teacherID, true).
		Order("created_at ASC").
		Find(&classes).Error
	if err != nil {
		return nil, storeErr("list teacher classes", err)
	}
	return classes, nil
}

func (r *ClassRepository) FindByStudent(ctx context.Context, studentID string) ([]model.ClassRoom, error) {
	var classes []model.ClassRoom
	err := r.DB.WithContext(ctx).
		Joins("JOIN class_members ON class_members.class_id = classes.id AND class_members.deleted_at IS NULL").
		Where("class_members.student_id = ? AND classes.active = ?", studentID, true).
		Order("classes.created_at ASC").
		Find(&classes).Error
	if err != nil {
		return nil, storeErr("list student classes", err)
	}
	return classes, nil
}

// AddMember 重复加入时忽略
func (r *ClassRepository) AddMember(ctx context.Context, classID, studentID string) error {
	member := &model.ClassMember{ClassID: classID, StudentID: studentID}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
	return storeErr("add class member", err)
}

func (r *ClassRepository) GetStudentIDsForClass(ctx context.Context, classID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.ClassMember{}).
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, storeErr("list class students", err)
	}
	return ids, nil
}

// GetClassesForTeacher 返回教师所有班级及各自的学生 ID
func (r *ClassRepository) GetClassesForTeacher(ctx context.Context, teacherID string) ([]model.ClassRoster, error) {
	classes, err := r.FindByTeacher(ctx, teacherID)
	if err != nil || len(classes) == 0 {
		return nil, err
	}

	classIDs := make([]string, len(classes))
	for i, c := range classes {
		classIDs[i] = c.ID
	}

	var members []model.ClassMember
	err = r.DB.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, storeErr("list class members", err)
	}

	byClass := make(map[string][]string, len(classes))
	for _, m := range members {
		byClass[m.ClassID] = append(byClass[m.ClassID], m.StudentID)
	}

	rosters := make([]model.ClassRoster, len(classes))
	for i, c := range classes {
		rosters[i] = model.ClassRoster{Class: c, StudentIDs: byClass[c.ID]}
	}
	return rosters, nil
}
