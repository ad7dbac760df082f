package repository

import (
	"context"
	"projectk_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	found, err := first(r.DB.WithContext(ctx).Where("id = ?", id), &q, "find question")
	if err != nil || !found {
		return nil, err
	}
	return &q, nil
}

// FindByIDs 不存在的 ID 直接忽略
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, storeErr("find questions", err)
	}
	return questions, nil
}

// FindBySubjectAndTopics 返回该学科下至少覆盖一个指定知识点的题目，topics 为空时返回全部
func (r *QuestionRepository) FindBySubjectAndTopics(ctx context.Context, subject model.Subject, topics []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Where("subject = ?", subject).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, storeErr("find questions by subject", err)
	}
	if len(topics) == 0 {
		return questions, nil
	}

	matched := questions[:0]
	for _, q := range questions {
		for _, t := range topics {
			if q.HasTopic(t) {
				matched = append(matched, q)
				break
			}
		}
	}
	return matched, nil
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return storeErr("create questions", r.DB.WithContext(ctx).Create(&questions).Error)
}
