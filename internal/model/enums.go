package model

import "strings"

type Subject string

const (
	SubjectMath      Subject = "math"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBiology   Subject = "biology"
	SubjectEnglish   Subject = "english"
	SubjectHistory   Subject = "history"
	SubjectGeography Subject = "geography"
)

// AllSubjects 按固定顺序列出全部学科，分析视图依此输出
var AllSubjects = []Subject{
	SubjectMath,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectEnglish,
	SubjectHistory,
	SubjectGeography,
}

var subjectAliases = map[string]Subject{
	"maths":       SubjectMath,
	"mathematics": SubjectMath,
}

// ParseSubject 忽略大小写与首尾空白，未知学科返回 false
func ParseSubject(s string) (Subject, bool) {
	key := normalizeEnum(s)
	for _, subj := range AllSubjects {
		if string(subj) == key {
			return subj, true
		}
	}
	if subj, ok := subjectAliases[key]; ok {
		return subj, true
	}
	return "", false
}

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionShortAnswer QuestionType = "short_answer"
	QuestionLongAnswer  QuestionType = "long_answer"
	QuestionNumerical   QuestionType = "numerical"
)

var questionTypeAliases = map[string]QuestionType{
	"mcq":             QuestionMCQ,
	"multiple_choice": QuestionMCQ,
	"multiplechoice":  QuestionMCQ,
	"short_answer":    QuestionShortAnswer,
	"short":           QuestionShortAnswer,
	"long_answer":     QuestionLongAnswer,
	"long":            QuestionLongAnswer,
	"essay":           QuestionLongAnswer,
	"numerical":       QuestionNumerical,
	"numeric":         QuestionNumerical,
	"number":          QuestionNumerical,
}

// ParseQuestionType 从不失败：无法识别的题型一律视为选择题
func ParseQuestionType(s string) QuestionType {
	if t, ok := questionTypeAliases[normalizeEnum(s)]; ok {
		return t
	}
	return QuestionMCQ
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(normalizeEnum(s)); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return d, true
	}
	return "", false
}

type GradeLevel string

var gradeLevels = []GradeLevel{"6th", "7th", "8th", "9th", "10th", "11th", "12th"}

func ParseGradeLevel(s string) (GradeLevel, bool) {
	key := normalizeEnum(s)
	for _, g := range gradeLevels {
		if string(g) == key {
			return g, true
		}
	}
	return "", false
}

// normalizeEnum 去空白、转小写，并把空格和连字符统一成下划线
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
