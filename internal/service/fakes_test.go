package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"sort"
	"sync"
	"time"
)

// 内存实现，仅供测试使用

type fakeQuestions struct {
	mu      sync.Mutex
	byID    map[string]model.Question
	created []model.Question
	err     error
}

func newFakeQuestions(qs ...model.Question) *fakeQuestions {
	f := &fakeQuestions{byID: make(map[string]model.Question)}
	for _, q := range qs {
		f.byID[q.ID] = q
	}
	return f
}

func (f *fakeQuestions) FindByID(_ context.Context, id string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (f *fakeQuestions) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Question
	for _, id := range ids {
		if q, ok := f.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestions) FindBySubjectAndTopics(_ context.Context, subject model.Subject, topics []string) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, q := range f.byID {
		if q.Subject != subject {
			continue
		}
		if len(topics) > 0 {
			match := false
			for _, t := range topics {
				if q.HasTopic(t) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuestions) CreateBatch(_ context.Context, questions []model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range questions {
		f.byID[q.ID] = q
		f.created = append(f.created, q)
	}
	return nil
}

type fakeAttempts struct {
	mu       sync.Mutex
	attempts []model.PracticeAttempt
	seq      int
}

func (f *fakeAttempts) Insert(_ context.Context, a *model.PracticeAttempt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if a.ID == "" {
		a.ID = fmt.Sprintf("attempt-%d", f.seq)
	}
	f.attempts = append(f.attempts, *a)
	return a.ID, nil
}

func (f *fakeAttempts) FindByID(_ context.Context, id string) (*model.PracticeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.attempts {
		if f.attempts[i].ID == id {
			a := f.attempts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAttempts) FindByStudent(ctx context.Context, studentID string, subject model.Subject) ([]model.PracticeAttempt, error) {
	return f.FindByStudents(ctx, []string{studentID}, subject)
}

func (f *fakeAttempts) FindByStudents(_ context.Context, studentIDs []string, subject model.Subject) ([]model.PracticeAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := toSet(studentIDs)
	var out []model.PracticeAttempt
	for _, a := range f.attempts {
		if _, ok := set[a.StudentID]; !ok {
			continue
		}
		if subject != "" && a.Subject != subject {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeProfiles struct {
	mu        sync.Mutex
	profiles  map[string]*model.StudentProfile
	updateErr error
	updates   int
}

func newFakeProfiles(ps ...model.StudentProfile) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[string]*model.StudentProfile)}
	for i := range ps {
		p := ps[i]
		f.profiles[p.UserID] = &p
	}
	return f
}

func (f *fakeProfiles) GetStudentProfile(_ context.Context, userID string) (*model.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) FindStudentProfiles(_ context.Context, userIDs []string) ([]model.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentProfile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) UpdateXP(_ context.Context, userID string, totalXP, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil
	}
	p.TotalXP = totalXP
	p.Level = level
	f.updates++
	return nil
}

type fakeRoster struct {
	classes map[string]model.ClassRoom
	members map[string][]string
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{classes: make(map[string]model.ClassRoom), members: make(map[string][]string)}
}

func (f *fakeRoster) addClass(id, teacherID string, subject model.Subject, students ...string) {
	c := model.ClassRoom{TeacherID: teacherID, Subject: subject, ClassName: "Class " + id, JoinCode: "J" + id}
	c.ID = id
	f.classes[id] = c
	f.members[id] = students
}

func (f *fakeRoster) FindClassByID(_ context.Context, classID string) (*model.ClassRoom, error) {
	c, ok := f.classes[classID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeRoster) GetStudentIDsForClass(_ context.Context, classID string) ([]string, error) {
	return f.members[classID], nil
}

func (f *fakeRoster) GetClassesForTeacher(_ context.Context, teacherID string) ([]model.ClassRoster, error) {
	var ids []string
	for id, c := range f.classes {
		if c.TeacherID == teacherID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]model.ClassRoster, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.ClassRoster{Class: f.classes[id], StudentIDs: f.members[id]})
	}
	return out, nil
}

type fakeMessages struct {
	messages []model.ChatMessage
}

func (f *fakeMessages) FindByStudents(_ context.Context, studentIDs []string) ([]model.ChatMessage, error) {
	set := toSet(studentIDs)
	var out []model.ChatMessage
	for _, m := range f.messages {
		if _, ok := set[m.StudentID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMindfulness struct {
	sessions []model.MindfulnessSession
}

func (f *fakeMindfulness) Create(_ context.Context, s *model.MindfulnessSession) error {
	s.ID = fmt.Sprintf("session-%d", len(f.sessions)+1)
	f.sessions = append(f.sessions, *s)
	return nil
}

func (f *fakeMindfulness) ListByStudent(_ context.Context, studentID string) ([]model.MindfulnessSession, error) {
	var out []model.MindfulnessSession
	for _, s := range f.sessions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	events []model.CalendarEvent
}

func (f *fakeCalendar) Create(_ context.Context, e *model.CalendarEvent) error {
	e.ID = fmt.Sprintf("event-%d", len(f.events)+1)
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeCalendar) ListByStudent(_ context.Context, studentID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, e := range f.events {
		if e.StudentID != studentID {
			continue
		}
		if from != nil && e.StartTime.Before(*from) {
			continue
		}
		if to != nil && !e.StartTime.Before(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type recordingSink struct {
	events []XPEvent
}

func (r *recordingSink) OnXPEvent(_ context.Context, _ string, event XPEvent) {
	r.events = append(r.events, event)
}

type stubGenerator struct {
	questions []model.Question
	err       error
	calls     int
}

func (g *stubGenerator) GenerateQuestions(_ context.Context, spec QuestionSpec) ([]model.Question, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func question(id string, subject model.Subject, answer string, topics ...string) model.Question {
	q := model.Question{
		Subject:       subject,
		Topics:        topics,
		QuestionType:  model.QuestionShortAnswer,
		Difficulty:    model.DifficultyMedium,
		QuestionText:  "question " + id,
		CorrectAnswer: answer,
	}
	q.ID = id
	return q
}

func attemptAt(studentID string, subject model.Subject, score float64, at time.Time, topics ...string) model.PracticeAttempt {
	a := model.PracticeAttempt{
		StudentID:      studentID,
		Subject:        subject,
		Score:          score,
		TotalQuestions: 10,
		CorrectCount:   int(score / 10),
		Topics:         topics,
		CompletedAt:    at,
	}
	a.ID = fmt.Sprintf("%s-%s-%d", studentID, subject, at.UnixNano())
	return a
}

func messageAt(studentID string, subject model.Subject, at time.Time) model.ChatMessage {
	m := model.ChatMessage{StudentID: studentID, Subject: subject, Timestamp: at, UserMessage: "hi", BotResponse: "hello"}
	m.ID = fmt.Sprintf("msg-%s-%d", studentID, at.UnixNano())
	return m
}
