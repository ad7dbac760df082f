package service

import (
	"context"
	"errors"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type practiceFixture struct {
	svc       *PracticeService
	questions *fakeQuestions
	attempts  *fakeAttempts
	profiles  *fakeProfiles
	sink      *recordingSink
}

func newPracticeFixture(generator QuestionGenerator) *practiceFixture {
	f := &practiceFixture{
		questions: newFakeQuestions(
			question("q1", model.SubjectMath, "4", "arithmetic"),
			question("q2", model.SubjectMath, "Paris", "geography"),
			question("q3", model.SubjectMath, "12", "arithmetic"),
			question("q4", model.SubjectMath, "x", "algebra"),
			question("q5", model.SubjectMath, "true", "logic"),
		),
		attempts: &fakeAttempts{},
		profiles: newFakeProfiles(studentProfile("s1", 95)),
		sink:     &recordingSink{},
	}
	xp := NewXPService(f.profiles)
	xp.Sink = f.sink
	f.svc = NewPracticeService(f.questions, f.attempts, xp, generator)
	f.svc.now = func() time.Time { return baseTime }
	return f
}

func TestSubmitAttempt_ScoresAndAwardsXP(t *testing.T) {
	f := newPracticeFixture(nil)

	res, err := f.svc.SubmitAttempt(context.Background(), "s1", SubmitAttemptRequest{
		TestID:      "test-1",
		QuestionIDs: []string{"q1", "q2", "q3", "q4", "q5"},
		Answers: map[string]model.AnswerText{
			"q1": "4",
			"q2": " paris ",
			"q3": "12.0",
			"q5": "TRUE",
		},
		TimeTaken: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.TotalQuestions)
	assert.Equal(t, 3, res.CorrectAnswers)
	assert.InDelta(t, 60.0, res.Score, 1e-9)
	assert.Equal(t, 30, res.XPEarned)
	assert.Equal(t, 125, res.TotalXP)
	assert.Equal(t, 2, res.Level)
	require.Len(t, res.XPEvents, 2)
	assert.Equal(t, XPEventLevelUp, res.XPEvents[0].Type)
	assert.Equal(t, 100, res.XPEvents[1].Milestone)
	assert.Len(t, f.sink.events, 2)

	require.Len(t, f.attempts.attempts, 1)
	stored := f.attempts.attempts[0]
	assert.Equal(t, res.AttemptID, stored.ID)
	assert.Equal(t, model.SubjectMath, stored.Subject)
	assert.Equal(t, model.DifficultyMedium, stored.Difficulty)
	assert.Equal(t, []string{"arithmetic", "geography", "algebra", "logic"}, []string(stored.Topics))
	assert.Equal(t, "12.0", stored.AnswerFor("q3"))
	assert.Equal(t, "", stored.AnswerFor("q4"))
	assert.True(t, baseTime.Equal(stored.CompletedAt))
}

func TestSubmitAttempt_ResubmissionAppends(t *testing.T) {
	f := newPracticeFixture(nil)
	req := SubmitAttemptRequest{TestID: "t", QuestionIDs: []string{"q1"}, Answers: map[string]model.AnswerText{"q1": "4"}}

	first, err := f.svc.SubmitAttempt(context.Background(), "s1", req)
	require.NoError(t, err)
	second, err := f.svc.SubmitAttempt(context.Background(), "s1", req)
	require.NoError(t, err)

	assert.NotEqual(t, first.AttemptID, second.AttemptID)
	assert.Len(t, f.attempts.attempts, 2)
}

func TestSubmitAttempt_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitAttemptRequest
	}{
		{"no questions", SubmitAttemptRequest{}},
		{"negative time", SubmitAttemptRequest{QuestionIDs: []string{"q1"}, TimeTaken: -1}},
		{"unknown subject", SubmitAttemptRequest{QuestionIDs: []string{"q1"}, Subject: "astrology"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPracticeFixture(nil)
			_, err := f.svc.SubmitAttempt(context.Background(), "s1", tt.req)
			assert.ErrorIs(t, err, util.ErrInvalidInput)
			assert.Empty(t, f.attempts.attempts)
		})
	}
}

func TestSubmitAttempt_XPFailureKeepsAttempt(t *testing.T) {
	f := newPracticeFixture(nil)
	f.profiles.updateErr = util.StoreError("update xp", errors.New("down"))

	res, err := f.svc.SubmitAttempt(context.Background(), "s1", SubmitAttemptRequest{
		QuestionIDs: []string{"q1"},
		Answers:     map[string]model.AnswerText{"q1": "4"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, 0, res.XPEarned)
	assert.Equal(t, 1, res.Level)
	assert.Len(t, f.attempts.attempts, 1)
}

func TestSubmitAttempt_StudentWithoutProfile(t *testing.T) {
	f := newPracticeFixture(nil)

	res, err := f.svc.SubmitAttempt(context.Background(), "ghost", SubmitAttemptRequest{
		QuestionIDs: []string{"q1", "q2"},
		Answers:     map[string]model.AnswerText{"q1": "4"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.Score, 1e-9)
	assert.Equal(t, 0, res.XPEarned)
	assert.Equal(t, 0, res.TotalXP)
	assert.Equal(t, 1, res.Level)
	assert.Empty(t, res.XPEvents)
	assert.Len(t, f.attempts.attempts, 1)
}

func TestSubmitAttempt_QuestionStoreError(t *testing.T) {
	f := newPracticeFixture(nil)
	f.questions.err = util.StoreError("find questions", errors.New("timeout"))

	_, err := f.svc.SubmitAttempt(context.Background(), "s1", SubmitAttemptRequest{QuestionIDs: []string{"q1"}})
	assert.ErrorIs(t, err, util.ErrStoreUnavailable)
	assert.Empty(t, f.attempts.attempts)
}

func TestResultDetails(t *testing.T) {
	f := newPracticeFixture(nil)
	res, err := f.svc.SubmitAttempt(context.Background(), "s1", SubmitAttemptRequest{
		QuestionIDs: []string{"q1", "q2"},
		Answers:     map[string]model.AnswerText{"q1": "4", "q2": "Rome"},
	})
	require.NoError(t, err)

	view, err := f.svc.ResultDetails(context.Background(), "s1", res.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CorrectCount)
	assert.Equal(t, 1, view.IncorrectCount)
	require.Len(t, view.QuestionResults, 2)
	assert.Equal(t, "Paris", view.QuestionResults[1].CorrectAnswer)

	_, err = f.svc.ResultDetails(context.Background(), "s2", res.AttemptID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = f.svc.ResultDetails(context.Background(), "s1", "nope")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestListResultsNewestFirst(t *testing.T) {
	f := newPracticeFixture(nil)
	f.attempts.attempts = []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 50, baseTime.Add(-2*time.Hour)),
		attemptAt("s1", model.SubjectPhysics, 70, baseTime),
		attemptAt("s1", model.SubjectMath, 90, baseTime.Add(-time.Hour)),
		attemptAt("s2", model.SubjectMath, 10, baseTime),
	}

	views, err := f.svc.ListResults(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 70.0, views[0].Score)
	assert.Equal(t, 90.0, views[1].Score)
	assert.Equal(t, 50.0, views[2].Score)

	mathOnly, err := f.svc.ListResults(context.Background(), "s1", "Maths")
	require.NoError(t, err)
	assert.Len(t, mathOnly, 2)

	_, err = f.svc.ListResults(context.Background(), "s1", "alchemy")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestSubjectStats(t *testing.T) {
	f := newPracticeFixture(nil)
	f.attempts.attempts = []model.PracticeAttempt{
		attemptAt("s1", model.SubjectMath, 40, baseTime.Add(-time.Hour), "algebra"),
		attemptAt("s1", model.SubjectMath, 80, baseTime, "algebra", "geometry"),
	}

	stats, err := f.svc.SubjectStats(context.Background(), "s1", "math")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTests)
	assert.InDelta(t, 60.0, stats.AverageScore, 1e-9)
	assert.Equal(t, 80.0, stats.BestScore)
	assert.InDelta(t, 60.0, stats.TopicAverages["algebra"], 1e-9)
	assert.InDelta(t, 80.0, stats.TopicAverages["geometry"], 1e-9)

	empty, err := f.svc.SubjectStats(context.Background(), "s1", "history")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalTests)
	assert.Equal(t, 0.0, empty.BestScore)
}

func TestGenerateTest_PlaceholderFallback(t *testing.T) {
	f := newPracticeFixture(nil)

	res, err := f.svc.GenerateTest(context.Background(), "s1", GenerateTestRequest{
		Subject:       "physics",
		Topics:        []string{"optics"},
		QuestionCount: 5,
	})
	require.NoError(t, err)

	assert.True(t, res.FreshGenerated)
	assert.Equal(t, model.SubjectPhysics, res.Subject)
	assert.Equal(t, model.DifficultyMixed, res.Difficulty)
	require.Len(t, res.Questions, 5)
	for _, q := range res.Questions {
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, []string{"optics"}, q.Topics)
	}
	assert.Len(t, f.questions.created, 5)
}

func TestGenerateTest_GeneratorErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: ErrAIUnavailable}
	f := newPracticeFixture(gen)

	res, err := f.svc.GenerateTest(context.Background(), "s1", GenerateTestRequest{Subject: "chemistry"})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, res.Questions, defaultQuestionCount)
}

func TestGenerateTest_PrefersUnseenStoredQuestions(t *testing.T) {
	gen := &stubGenerator{}
	f := newPracticeFixture(gen)
	f.attempts.attempts = []model.PracticeAttempt{{StudentID: "s1", Subject: model.SubjectMath, QuestionIDs: []string{"q1"}}}
	for i := 6; i <= 10; i++ {
		q := question(fmt.Sprintf("q%d", i), model.SubjectMath, "a", "extra")
		require.NoError(t, f.questions.CreateBatch(context.Background(), []model.Question{q}))
	}

	res, err := f.svc.GenerateTest(context.Background(), "s1", GenerateTestRequest{Subject: "math", QuestionCount: 5})
	require.NoError(t, err)

	assert.False(t, res.FreshGenerated)
	assert.Equal(t, 0, gen.calls)
	require.Len(t, res.Questions, 5)
	for _, q := range res.Questions {
		assert.NotEqual(t, "q1", q.ID)
	}
}

func TestGenerateTest_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  GenerateTestRequest
	}{
		{"unknown subject", GenerateTestRequest{Subject: "art"}},
		{"too few", GenerateTestRequest{Subject: "math", QuestionCount: 4}},
		{"too many", GenerateTestRequest{Subject: "math", QuestionCount: 51}},
		{"bad difficulty", GenerateTestRequest{Subject: "math", Difficulty: "insane"}},
		{"bad grade", GenerateTestRequest{Subject: "math", GradeLevel: "1st"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPracticeFixture(nil)
			_, err := f.svc.GenerateTest(context.Background(), "s1", tt.req)
			assert.ErrorIs(t, err, util.ErrInvalidInput)
		})
	}
}
