package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"projectk_backend/pkg/monitoring"
	"projectk_backend/pkg/tracing"
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	minQuestionCount     = 5
	maxQuestionCount     = 50
	defaultQuestionCount = 10
	recentScoresLimit    = 10
)

type SubmitAttemptRequest struct {
	TestID      string                      `json:"test_id"`
	Subject     string                      `json:"subject"`
	QuestionIDs []string                    `json:"question_ids" binding:"required"`
	Answers     map[string]model.AnswerText `json:"answers"`
	TimeTaken   int                         `json:"time_taken"`
}

type SubmitAttemptResult struct {
	AttemptID       string                 `json:"attempt_id"`
	Score           float64                `json:"score"`
	CorrectAnswers  int                    `json:"correct_answers"`
	TotalQuestions  int                    `json:"total_questions"`
	XPEarned        int                    `json:"xp_earned"`
	TotalXP         int                    `json:"total_xp"`
	Level           int                    `json:"level"`
	XPEvents        []XPEvent              `json:"xp_events,omitempty"`
	QuestionResults []model.QuestionResult `json:"question_results"`
}

type GenerateTestRequest struct {
	Subject       string   `json:"subject" binding:"required"`
	Topics        []string `json:"topics"`
	Difficulty    string   `json:"difficulty"`
	QuestionCount int      `json:"question_count"`
	QuestionTypes []string `json:"question_types"`
	GradeLevel    string   `json:"grade_level"`
}

type GenerateTestResult struct {
	TestID         string                   `json:"test_id"`
	Subject        model.Subject            `json:"subject"`
	Difficulty     model.Difficulty         `json:"difficulty"`
	Questions      []model.PracticeQuestion `json:"questions"`
	TotalQuestions int                      `json:"total_questions"`
	FreshGenerated bool                     `json:"fresh_generated"`
}

type SubjectStats struct {
	Subject       model.Subject      `json:"subject"`
	TotalTests    int                `json:"total_tests"`
	AverageScore  float64            `json:"average_score"`
	BestScore     float64            `json:"best_score"`
	RecentScores  []model.TrendPoint `json:"recent_scores"`
	TopicAverages map[string]float64 `json:"topic_averages"`
}

type PracticeService struct {
	Questions QuestionStore
	Attempts  AttemptStore
	XP        *XPService
	Generator QuestionGenerator
	now       func() time.Time
}

func NewPracticeService(questions QuestionStore, attempts AttemptStore, xp *XPService, generator QuestionGenerator) *PracticeService {
	return &PracticeService{
		Questions: questions,
		Attempts:  attempts,
		XP:        xp,
		Generator: generator,
		now:       time.Now,
	}
}

func (r *SubmitAttemptRequest) validate() (model.Subject, error) {
	if len(r.QuestionIDs) == 0 {
		return "", util.InvalidInput("question_ids must not be empty")
	}
	if r.TimeTaken < 0 {
		return "", util.InvalidInput("time_taken must not be negative")
	}
	if r.Subject == "" {
		return "", nil
	}
	subject, ok := model.ParseSubject(r.Subject)
	if !ok {
		return "", util.InvalidInput("unknown subject %q", r.Subject)
	}
	return subject, nil
}

// SubmitAttempt 判分、追加一条提交记录并发放经验。
// 同一 test_id 重复提交会产生新的记录。
func (s *PracticeService) SubmitAttempt(ctx context.Context, studentID string, req SubmitAttemptRequest) (*SubmitAttemptResult, error) {
	ctx, span := tracing.StartSpan(ctx, "practice.SubmitAttempt")
	defer span.End()

	subject, err := req.validate()
	if err != nil {
		return nil, err
	}

	questions, err := s.Questions.FindByIDs(ctx, req.QuestionIDs)
	if err != nil {
		return nil, err
	}
	idx := questionIndex(questions)

	answers := make(map[string]string, len(req.Answers))
	for id, a := range req.Answers {
		answers[id] = string(a)
	}
	scored := ScoreAnswers(req.QuestionIDs, answers, idx)

	attempt := &model.PracticeAttempt{
		StudentID:      studentID,
		TestID:         req.TestID,
		Subject:        subject,
		QuestionIDs:    append([]string{}, req.QuestionIDs...),
		Topics:         attemptTopics(req.QuestionIDs, idx),
		Score:          scored.Score,
		CorrectCount:   scored.CorrectCount,
		TotalQuestions: scored.TotalQuestions,
		TimeTaken:      req.TimeTaken,
		CompletedAt:    s.now(),
	}
	attempt.SetAnswers(answers)
	if attempt.Subject == "" || attempt.Difficulty == "" {
		subj, diff := dominantMeta(req.QuestionIDs, idx)
		if attempt.Subject == "" {
			attempt.Subject = subj
		}
		attempt.Difficulty = diff
	}

	id, err := s.Attempts.Insert(ctx, attempt)
	if err != nil {
		return nil, err
	}
	monitoring.AttemptsScored.WithLabelValues(string(attempt.Subject)).Inc()
	monitoring.AttemptScore.Observe(attempt.Score)

	result := &SubmitAttemptResult{
		AttemptID:       id,
		Score:           scored.Score,
		CorrectAnswers:  scored.CorrectCount,
		TotalQuestions:  scored.TotalQuestions,
		QuestionResults: scored.Results,
		Level:           LevelForXP(0),
	}

	award, err := s.XP.AwardXP(ctx, studentID, PracticeTestXP(scored.Score), "practice_test")
	if err != nil {
		// 提交记录已经写入，经验发放失败只记录日志
		logger.Log.Error("award practice xp failed", zap.String("studentId", studentID), zap.String("attemptId", id), zap.Error(err))
		return result, nil
	}
	result.XPEarned = award.Awarded
	result.TotalXP = award.TotalXP
	result.Level = award.Level
	result.XPEvents = award.Events
	return result, nil
}

// attemptTopics 已解析题目的知识点并集，保持出现顺序
func attemptTopics(questionIDs []string, idx map[string]*model.Question) []string {
	var topics []string
	for _, id := range questionIDs {
		if q, ok := idx[id]; ok {
			topics = append(topics, q.Topics...)
		}
	}
	return dedupe(topics)
}

// dominantMeta 取第一道已解析题目的学科；难度不一致时记为 mixed
func dominantMeta(questionIDs []string, idx map[string]*model.Question) (model.Subject, model.Difficulty) {
	var subject model.Subject
	var difficulty model.Difficulty
	for _, id := range questionIDs {
		q, ok := idx[id]
		if !ok {
			continue
		}
		if subject == "" {
			subject = q.Subject
		}
		switch {
		case difficulty == "":
			difficulty = q.Difficulty
		case difficulty != q.Difficulty:
			difficulty = model.DifficultyMixed
		}
	}
	return subject, difficulty
}

func (r *GenerateTestRequest) spec() (QuestionSpec, error) {
	subject, ok := model.ParseSubject(r.Subject)
	if !ok {
		return QuestionSpec{}, util.InvalidInput("unknown subject %q", r.Subject)
	}
	difficulty := model.DifficultyMixed
	if r.Difficulty != "" {
		if difficulty, ok = model.ParseDifficulty(r.Difficulty); !ok {
			return QuestionSpec{}, util.InvalidInput("unknown difficulty %q", r.Difficulty)
		}
	}
	count := r.QuestionCount
	if count == 0 {
		count = defaultQuestionCount
	}
	if count < minQuestionCount || count > maxQuestionCount {
		return QuestionSpec{}, util.InvalidInput("question_count must be between %d and %d", minQuestionCount, maxQuestionCount)
	}
	var grade model.GradeLevel
	if r.GradeLevel != "" {
		if grade, ok = model.ParseGradeLevel(r.GradeLevel); !ok {
			return QuestionSpec{}, util.InvalidInput("unknown grade level %q", r.GradeLevel)
		}
	}
	types := make([]model.QuestionType, 0, len(r.QuestionTypes))
	for _, t := range r.QuestionTypes {
		types = append(types, model.ParseQuestionType(t))
	}
	if len(types) == 0 {
		types = []model.QuestionType{model.QuestionMCQ}
	}

	return QuestionSpec{
		Subject:       subject,
		Topics:        dedupe(r.Topics),
		Difficulty:    difficulty,
		Count:         count,
		QuestionTypes: types,
		GradeLevel:    grade,
	}, nil
}

// GenerateTest 优先使用学生未做过的题库题目，不足时请求模型生成新题并入库
func (s *PracticeService) GenerateTest(ctx context.Context, studentID string, req GenerateTestRequest) (*GenerateTestResult, error) {
	ctx, span := tracing.StartSpan(ctx, "practice.GenerateTest")
	defer span.End()

	spec, err := req.spec()
	if err != nil {
		return nil, err
	}

	stored, err := s.Questions.FindBySubjectAndTopics(ctx, spec.Subject, spec.Topics)
	if err != nil {
		return nil, err
	}
	history, err := s.Attempts.FindByStudent(ctx, studentID, spec.Subject)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, a := range history {
		for _, id := range a.QuestionIDs {
			seen[id] = struct{}{}
		}
	}

	var unseen []model.Question
	for _, q := range stored {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		if spec.Difficulty != model.DifficultyMixed && q.Difficulty != spec.Difficulty {
			continue
		}
		unseen = append(unseen, q)
	}

	result := &GenerateTestResult{
		TestID:     model.GenerateUUID(),
		Subject:    spec.Subject,
		Difficulty: spec.Difficulty,
	}

	selected := unseen
	if len(unseen) >= spec.Count {
		selected = unseen[:spec.Count]
	} else {
		selected, err = s.freshQuestions(ctx, spec)
		if err != nil {
			return nil, err
		}
		result.FreshGenerated = true
	}

	result.Questions = make([]model.PracticeQuestion, 0, len(selected))
	for i := range selected {
		result.Questions = append(result.Questions, selected[i].ForPractice())
	}
	result.TotalQuestions = len(result.Questions)
	return result, nil
}

func (s *PracticeService) freshQuestions(ctx context.Context, spec QuestionSpec) ([]model.Question, error) {
	var questions []model.Question
	var err error
	if s.Generator != nil {
		questions, err = s.Generator.GenerateQuestions(ctx, spec)
	}
	if s.Generator == nil || err != nil || len(questions) == 0 {
		logger.Log.Warn("question generation unavailable, using placeholders",
			zap.String("subject", string(spec.Subject)), zap.Error(err))
		questions = placeholderQuestions(spec)
	}

	for i := range questions {
		questions[i].ID = model.GenerateUUID()
		questions[i].Subject = spec.Subject
		questions[i].GradeLevel = spec.GradeLevel
		if questions[i].Difficulty == "" {
			questions[i].Difficulty = spec.Difficulty
		}
	}
	if err := s.Questions.CreateBatch(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// placeholderQuestions 模型不可用时的占位选择题，标准答案始终是选项之一
func placeholderQuestions(spec QuestionSpec) []model.Question {
	topic := "general"
	if len(spec.Topics) > 0 {
		topic = spec.Topics[0]
	}
	questions := make([]model.Question, 0, spec.Count)
	for i := 1; i <= spec.Count; i++ {
		questions = append(questions, model.Question{
			Subject:       spec.Subject,
			Topics:        []string{topic},
			QuestionType:  model.QuestionMCQ,
			Difficulty:    spec.Difficulty,
			QuestionText:  fmt.Sprintf("Sample %s question %d about %s", spec.Subject, i, topic),
			Options:       []string{"A. Option 1", "B. Option 2", "C. Option 3", "D. Option 4"},
			CorrectAnswer: "A. Option 1",
			Explanation:   "This is a sample explanation.",
		})
	}
	return questions
}

// buildResultView 使用存储的得分，逐题结果按当前题库重新比对
func buildResultView(a *model.PracticeAttempt, idx map[string]*model.Question) model.PracticeResultView {
	scored := ScoreAnswers(a.QuestionIDs, a.Answers.Data(), idx)
	return model.PracticeResultView{
		ID:              a.ID,
		TestID:          a.TestID,
		Subject:         a.Subject,
		Difficulty:      a.Difficulty,
		Score:           a.Score,
		TotalQuestions:  a.TotalQuestions,
		CorrectCount:    a.CorrectCount,
		IncorrectCount:  a.TotalQuestions - a.CorrectCount,
		TimeTaken:       a.TimeTaken,
		CompletedAt:     a.CompletedAt,
		QuestionResults: scored.Results,
	}
}

func (s *PracticeService) questionsFor(ctx context.Context, attempts []model.PracticeAttempt) (map[string]*model.Question, error) {
	var ids []string
	for _, a := range attempts {
		ids = append(ids, a.QuestionIDs...)
	}
	questions, err := s.Questions.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	return questionIndex(questions), nil
}

// ListResults 学生的练习记录，最新的在前
func (s *PracticeService) ListResults(ctx context.Context, studentID, subject string) ([]model.PracticeResultView, error) {
	var subj model.Subject
	if subject != "" {
		var ok bool
		if subj, ok = model.ParseSubject(subject); !ok {
			return nil, util.InvalidInput("unknown subject %q", subject)
		}
	}

	attempts, err := s.Attempts.FindByStudent(ctx, studentID, subj)
	if err != nil {
		return nil, err
	}
	idx, err := s.questionsFor(ctx, attempts)
	if err != nil {
		return nil, err
	}

	views := make([]model.PracticeResultView, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		views = append(views, buildResultView(&attempts[i], idx))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CompletedAt.After(views[j].CompletedAt)
	})
	return views, nil
}

// ResultDetails 其他学生的记录同样视为不存在
func (s *PracticeService) ResultDetails(ctx context.Context, studentID, attemptID string) (*model.PracticeResultView, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil || attempt.StudentID != studentID {
		return nil, util.ErrAttemptNotFound
	}
	idx, err := s.questionsFor(ctx, []model.PracticeAttempt{*attempt})
	if err != nil {
		return nil, err
	}
	view := buildResultView(attempt, idx)
	return &view, nil
}

// SubjectStats 单学科统计，没有记录时全部为 0
func (s *PracticeService) SubjectStats(ctx context.Context, studentID, subject string) (*SubjectStats, error) {
	subj, ok := model.ParseSubject(subject)
	if !ok {
		return nil, util.InvalidInput("unknown subject %q", subject)
	}
	attempts, err := s.Attempts.FindByStudent(ctx, studentID, subj)
	if err != nil {
		return nil, err
	}

	stats := &SubjectStats{
		Subject:       subj,
		TotalTests:    len(attempts),
		AverageScore:  averageScore(attempts),
		RecentScores:  progressTrend(attempts, recentScoresLimit),
		TopicAverages: make(map[string]float64),
	}
	stats.BestScore = summarize(attempts).HighestScore

	topicScores := make(map[string][]float64)
	for _, a := range attempts {
		for _, t := range a.Topics {
			topicScores[t] = append(topicScores[t], a.Score)
		}
	}
	for t, scores := range topicScores {
		var sum float64
		for _, sc := range scores {
			sum += sc
		}
		stats.TopicAverages[t] = sum / float64(len(scores))
	}
	return stats, nil
}
