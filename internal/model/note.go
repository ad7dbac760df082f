package model

type StudyNote struct {
	UUIDBase
	StudentID  string  `gorm:"size:36;index;not null" json:"student_id"`
	Subject    Subject `gorm:"size:32;index" json:"subject"`
	Topic      string  `gorm:"size:200" json:"topic"`
	Title      string  `gorm:"size:200;not null" json:"title"`
	Content    string  `gorm:"type:longtext" json:"content"`
	IsFavorite bool    `gorm:"default:false" json:"is_favorite"`
	ExportURL  string  `gorm:"size:500" json:"export_url,omitempty"`
}

func (StudyNote) TableName() string {
	return "study_notes"
}
