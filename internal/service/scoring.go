package service

import (
	"projectk_backend/internal/model"
	"strings"
)

// MatchAnswer 判断提交答案是否与标准答案一致：两侧去除首尾空白后整体转小写，再做完全相等比较。
// 不做模糊匹配，也不做数值容差，"12" 与 "12.0" 视为不同。
func MatchAnswer(correct, submitted string) bool {
	return strings.ToLower(strings.TrimSpace(correct)) == strings.ToLower(strings.TrimSpace(submitted))
}

// ScoreResult 一次提交的判分结果
type ScoreResult struct {
	Results        []model.QuestionResult
	CorrectCount   int
	TotalQuestions int
	Score          float64
}

// ScoreAnswers 逐题判分。
// 总题数恒为 questionIDs 的长度；题库中找不到的题目不判分、不计入正确数，未作答按错误处理。
// 得分为 correct/total*100，不做取整；总题数为 0 时得分为 0。
func ScoreAnswers(questionIDs []string, answers map[string]string, questions map[string]*model.Question) ScoreResult {
	res := ScoreResult{
		Results:        make([]model.QuestionResult, 0, len(questionIDs)),
		TotalQuestions: len(questionIDs),
	}

	for _, id := range questionIDs {
		submitted := answers[id]
		q, ok := questions[id]
		if !ok || q == nil {
			res.Results = append(res.Results, model.QuestionResult{
				QuestionID:    id,
				StudentAnswer: submitted,
			})
			continue
		}

		correct := MatchAnswer(q.CorrectAnswer, submitted)
		if correct {
			res.CorrectCount++
		}
		res.Results = append(res.Results, model.QuestionResult{
			QuestionID:    id,
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			StudentAnswer: submitted,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
			Topics:        q.Topics,
			Difficulty:    q.Difficulty,
			Resolved:      true,
		})
	}

	if res.TotalQuestions > 0 {
		res.Score = float64(res.CorrectCount) / float64(res.TotalQuestions) * 100
	}
	return res
}

// questionIndex 按 ID 建立题目索引
func questionIndex(questions []model.Question) map[string]*model.Question {
	idx := make(map[string]*model.Question, len(questions))
	for i := range questions {
		idx[questions[i].ID] = &questions[i]
	}
	return idx
}
