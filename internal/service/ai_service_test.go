package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"projectk_backend/internal/config"
	"projectk_backend/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedQuestions(t *testing.T) {
	raw := `{"questions":[
		{"question_text":"What is 6 x 7?","question_type":"numeric","correct_answer":42,"difficulty":"easy"},
		{"question_text":"","correct_answer":"skip me"},
		{"question_text":"Pick one","question_type":"drag_drop","options":["A","B"],"correct_answer":["A"]},
		{"question_text":"Is water wet?","question_type":"short answer","options":["yes","no"],"correct_answer":true,"topics":["matter"]},
		{"question_text":"Overflow","correct_answer":"x"}
	]}`
	spec := QuestionSpec{Subject: model.SubjectPhysics, Topics: []string{"forces"}, Difficulty: model.DifficultyMedium, Count: 2}

	qs, err := parseGeneratedQuestions(raw, spec)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, "42", qs[0].CorrectAnswer)
	assert.Equal(t, model.QuestionNumerical, qs[0].QuestionType)
	assert.Equal(t, model.DifficultyEasy, qs[0].Difficulty)
	assert.Equal(t, []string{"forces"}, []string(qs[0].Topics))
	assert.Equal(t, model.SubjectPhysics, qs[0].Subject)

	assert.Equal(t, "true", qs[1].CorrectAnswer)
	assert.Equal(t, model.QuestionShortAnswer, qs[1].QuestionType)
	assert.Equal(t, model.DifficultyMedium, qs[1].Difficulty)
	assert.Equal(t, []string{"matter"}, []string(qs[1].Topics))
	assert.Empty(t, qs[1].Options)
}

func TestParseGeneratedQuestions_MCQAnswerMustBeAnOption(t *testing.T) {
	raw := `{"questions":[
		{"question_text":"Capital of France?","question_type":"mcq","options":["A. Rome","B. Berlin"],"correct_answer":"Paris"},
		{"question_text":"2+2?","question_type":"mcq","options":[],"correct_answer":"4"},
		{"question_text":"3+3?","question_type":"multiple choice","correct_answer":"6"},
		{"question_text":"Largest planet?","question_type":"mcq","options":["Mars","Jupiter"],"correct_answer":" jupiter "}
	]}`
	spec := QuestionSpec{Subject: model.SubjectGeography, Difficulty: model.DifficultyEasy, Count: 10}

	qs, err := parseGeneratedQuestions(raw, spec)
	require.NoError(t, err)
	require.Len(t, qs, 1)

	assert.Equal(t, "Largest planet?", qs[0].QuestionText)
	assert.Equal(t, model.QuestionMCQ, qs[0].QuestionType)
	assert.Equal(t, []string{"Mars", "Jupiter"}, []string(qs[0].Options))
	assert.True(t, answerInOptions(qs[0].CorrectAnswer, qs[0].Options))
}

func TestParseGeneratedQuestions_InvalidJSON(t *testing.T) {
	_, err := parseGeneratedQuestions("not json", QuestionSpec{})
	assert.Error(t, err)
}

func TestAIServiceWithoutKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{Model: "gpt-4o-mini"})

	_, err := svc.Complete(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrAIUnavailable)

	_, err = svc.GenerateQuestions(context.Background(), QuestionSpec{Subject: model.SubjectMath, Count: 5})
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestQuestionPromptMentionsSpec(t *testing.T) {
	prompt := questionPrompt(QuestionSpec{
		Subject:       model.SubjectBiology,
		Topics:        []string{"cells"},
		Difficulty:    model.DifficultyHard,
		Count:         7,
		QuestionTypes: []model.QuestionType{model.QuestionMCQ},
	})
	assert.True(t, strings.Contains(prompt, "biology"))
	assert.True(t, strings.Contains(prompt, "cells"))
	assert.True(t, strings.Contains(prompt, "7"))
}

func TestLocalStorageProvider(t *testing.T) {
	root := t.TempDir()
	p := &LocalStorageProvider{Root: root}
	ctx := context.Background()

	url, err := p.Upload(ctx, "notes/s1/n1.md", bytes.NewBufferString("# Notes"), 7, "text/markdown")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/notes/s1/n1.md", url)

	data, err := os.ReadFile(filepath.Join(root, "notes", "s1", "n1.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Notes", string(data))

	require.NoError(t, p.Delete(ctx, "notes/s1/n1.md"))
	require.NoError(t, p.Delete(ctx, "notes/s1/n1.md"))

	// 路径穿越被限制在根目录内
	_, err = p.Upload(ctx, "../escape.md", bytes.NewBufferString("x"), 1, "text/markdown")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.md"))
	assert.NoError(t, err)
}
