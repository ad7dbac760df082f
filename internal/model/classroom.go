package model

// ClassRoom 班级，学生通过加入码加入
type ClassRoom struct {
	UUIDBase
	JoinCode    string     `gorm:"size:8;uniqueIndex;not null" json:"join_code"`
	TeacherID   string     `gorm:"size:36;index;not null" json:"teacher_id"`
	Subject     Subject    `gorm:"size:32" json:"subject"`
	ClassName   string     `gorm:"size:100;not null" json:"class_name"`
	GradeLevel  GradeLevel `gorm:"size:8" json:"grade_level"`
	Description string     `gorm:"type:text" json:"description"`
	Active      bool       `gorm:"default:true" json:"active"`
}

func (ClassRoom) TableName() string {
	return "classes"
}

func (c *ClassRoom) Info() ClassInfo {
	return ClassInfo{
		ClassID:    c.ID,
		ClassName:  c.ClassName,
		Subject:    c.Subject,
		GradeLevel: c.GradeLevel,
		JoinCode:   c.JoinCode,
	}
}

// ClassMember 班级花名册条目
type ClassMember struct {
	UUIDBase
	ClassID   string `gorm:"size:36;uniqueIndex:idx_class_student;not null" json:"class_id"`
	StudentID string `gorm:"size:36;uniqueIndex:idx_class_student;index;not null" json:"student_id"`
}

func (ClassMember) TableName() string {
	return "class_members"
}

// ClassRoster 班级及其学生 ID 集合
type ClassRoster struct {
	Class      ClassRoom
	StudentIDs []string
}
