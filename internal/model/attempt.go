package model

import (
	"time"

	"gorm.io/datatypes"
)

// PracticeAttempt 一次练习提交记录，只追加不修改
type PracticeAttempt struct {
	UUIDBase
	StudentID      string                                `gorm:"size:36;index;not null" json:"student_id"`
	TestID         string                                `gorm:"size:64;index" json:"test_id"`
	Subject        Subject                               `gorm:"size:32;index" json:"subject"`
	Difficulty     Difficulty                            `gorm:"size:16" json:"difficulty"`
	QuestionIDs    datatypes.JSONSlice[string]           `gorm:"type:json" json:"question_ids"`
	Answers        datatypes.JSONType[map[string]string] `gorm:"type:json" json:"answers"`
	Topics         datatypes.JSONSlice[string]           `gorm:"type:json" json:"topics"`
	Score          float64                               `json:"score"`
	CorrectCount   int                                   `json:"correct_count"`
	TotalQuestions int                                   `json:"total_questions"`
	TimeTaken      int                                   `json:"time_taken"`
	CompletedAt    time.Time                             `gorm:"index" json:"completed_at"`
}

func (PracticeAttempt) TableName() string {
	return "practice_attempts"
}

// AnswerFor 返回某题的提交答案，未作答时为空字符串
func (a *PracticeAttempt) AnswerFor(questionID string) string {
	return a.Answers.Data()[questionID]
}

func (a *PracticeAttempt) SetAnswers(answers map[string]string) {
	a.Answers = datatypes.NewJSONType(answers)
}

// HasTopic 判断本次提交是否涉及指定知识点
func (a *PracticeAttempt) HasTopic(topic string) bool {
	for _, t := range a.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// QuestionResult 单题判分结果
type QuestionResult struct {
	QuestionID    string       `json:"question_id"`
	QuestionText  string       `json:"question_text,omitempty"`
	QuestionType  QuestionType `json:"question_type,omitempty"`
	StudentAnswer string       `json:"student_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     bool         `json:"is_correct"`
	Explanation   string       `json:"explanation,omitempty"`
	Topics        []string     `json:"topics,omitempty"`
	Difficulty    Difficulty   `json:"difficulty,omitempty"`
	Resolved      bool         `json:"-"`
}

// PracticeResultView 练习记录详情
type PracticeResultView struct {
	ID              string           `json:"id"`
	TestID          string           `json:"test_id"`
	Subject         Subject          `json:"subject"`
	Difficulty      Difficulty       `json:"difficulty"`
	Score           float64          `json:"score"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectCount    int              `json:"correct_count"`
	IncorrectCount  int              `json:"incorrect_count"`
	TimeTaken       int              `json:"time_taken"`
	CompletedAt     time.Time        `json:"completed_at"`
	QuestionResults []QuestionResult `json:"question_results"`
}
