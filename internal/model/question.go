package model

import "gorm.io/datatypes"

// Question 练习题，创建后不再修改
type Question struct {
	UUIDBase
	Subject            Subject                     `gorm:"size:32;index;not null" json:"subject"`
	Topics             datatypes.JSONSlice[string] `gorm:"type:json" json:"topics"`
	QuestionType       QuestionType                `gorm:"size:32;not null" json:"question_type"`
	Difficulty         Difficulty                  `gorm:"size:16;index" json:"difficulty"`
	GradeLevel         GradeLevel                  `gorm:"size:8" json:"grade_level,omitempty"`
	QuestionText       string                      `gorm:"type:text;not null" json:"question_text"`
	Options            datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	CorrectAnswer      string                      `gorm:"type:text" json:"correct_answer"`
	Explanation        string                      `gorm:"type:text" json:"explanation"`
	LearningObjectives datatypes.JSONSlice[string] `gorm:"type:json" json:"learning_objectives"`
}

func (Question) TableName() string {
	return "questions"
}

// HasTopic 判断题目是否涉及指定知识点
func (q *Question) HasTopic(topic string) bool {
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// PracticeQuestion 下发给学生的题目视图，不含答案与解析
type PracticeQuestion struct {
	ID           string       `json:"id"`
	Subject      Subject      `json:"subject"`
	Topics       []string     `json:"topics"`
	QuestionType QuestionType `json:"question_type"`
	Difficulty   Difficulty   `json:"difficulty"`
	QuestionText string       `json:"question_text"`
	Options      []string     `json:"options,omitempty"`
}

func (q *Question) ForPractice() PracticeQuestion {
	return PracticeQuestion{
		ID:           q.ID,
		Subject:      q.Subject,
		Topics:       q.Topics,
		QuestionType: q.QuestionType,
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
		Options:      q.Options,
	}
}
