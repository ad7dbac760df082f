package service

import (
	"context"
	"fmt"
	"projectk_backend/internal/model"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type GenerateNotesRequest struct {
	Subject    string `json:"subject" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	Title      string `json:"title"`
	SourceText string `json:"source_text"`
}

type GeneratedNote struct {
	Note     *model.StudyNote `json:"note"`
	XPEarned int              `json:"xp_earned"`
}

type NoteService struct {
	NoteRepo *repository.NoteRepository
	Writer   TextWriter
	Storage  StorageProvider
	XP       *XPService
}

func NewNoteService(noteRepo *repository.NoteRepository, writer TextWriter, storage StorageProvider, xp *XPService) *NoteService {
	return &NoteService{NoteRepo: noteRepo, Writer: writer, Storage: storage, XP: xp}
}

// GenerateNotes 模型不可用时生成只含提纲的笔记
func (s *NoteService) GenerateNotes(ctx context.Context, studentID string, req GenerateNotesRequest) (*GeneratedNote, error) {
	subject, ok := model.ParseSubject(req.Subject)
	if !ok {
		return nil, util.InvalidInput("unknown subject %q", req.Subject)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, util.InvalidInput("topic is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("%s notes: %s", subject, topic)
	}

	prompt := fmt.Sprintf("Write concise markdown study notes on %q for %s. Use headings, key points and one worked example.", topic, subject)
	if req.SourceText != "" {
		prompt += "\n\nBase the notes on this material:\n" + req.SourceText
	}
	content, err := s.Writer.Complete(ctx, "You write clear study notes for secondary school students.", prompt)
	if err != nil {
		logger.Log.Warn("note generation failed, using outline", zap.String("studentId", studentID), zap.Error(err))
		content = fmt.Sprintf("# %s\n\n## Key points\n\n- \n\n## Examples\n\n- \n", title)
	}

	note := &model.StudyNote{
		StudentID: studentID,
		Subject:   subject,
		Topic:     topic,
		Title:     title,
		Content:   content,
	}
	if err := s.NoteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	result := &GeneratedNote{Note: note}
	award, err := s.XP.AwardXP(ctx, studentID, XPNotesGenerated, "notes_generated")
	if err != nil {
		logger.Log.Error("award notes xp failed", zap.String("studentId", studentID), zap.Error(err))
		return result, nil
	}
	result.XPEarned = award.Awarded
	return result, nil
}

func (s *NoteService) ListNotes(ctx context.Context, studentID, subject string, favoritesOnly bool) ([]model.StudyNote, error) {
	var subj model.Subject
	if subject != "" {
		var ok bool
		if subj, ok = model.ParseSubject(subject); !ok {
			return nil, util.InvalidInput("unknown subject %q", subject)
		}
	}
	return s.NoteRepo.ListByStudent(ctx, studentID, subj, favoritesOnly)
}

// GetNote 其他学生的笔记同样视为不存在
func (s *NoteService) GetNote(ctx context.Context, studentID, noteID string) (*model.StudyNote, error) {
	note, err := s.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.StudentID != studentID {
		return nil, util.ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) ToggleFavorite(ctx context.Context, studentID, noteID string) (*model.StudyNote, error) {
	note, err := s.GetNote(ctx, studentID, noteID)
	if err != nil {
		return nil, err
	}
	note.IsFavorite = !note.IsFavorite
	if err := s.NoteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, studentID, noteID string) error {
	note, err := s.GetNote(ctx, studentID, noteID)
	if err != nil {
		return err
	}
	if note.ExportURL != "" {
		if err := s.Storage.Delete(ctx, exportName(note)); err != nil {
			logger.Log.Warn("delete exported note failed", zap.String("noteId", note.ID), zap.Error(err))
		}
	}
	return s.NoteRepo.Delete(ctx, note.ID)
}

func exportName(note *model.StudyNote) string {
	return fmt.Sprintf("notes/%s/%s.md", note.StudentID, note.ID)
}

// ExportNote 以 markdown 文件上传到存储并记录访问地址
func (s *NoteService) ExportNote(ctx context.Context, studentID, noteID string) (*model.StudyNote, error) {
	note, err := s.GetNote(ctx, studentID, noteID)
	if err != nil {
		return nil, err
	}

	body := note.Content
	if !strings.HasPrefix(strings.TrimSpace(body), "#") {
		body = "# " + note.Title + "\n\n" + body
	}
	url, err := s.Storage.Upload(ctx, exportName(note), strings.NewReader(body), int64(len(body)), util.MimeMarkdown)
	if err != nil {
		return nil, util.StoreError("export note", err)
	}

	note.ExportURL = url
	if err := s.NoteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
