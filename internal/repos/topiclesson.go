package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type TopicLessonRepo interface {
  Create(ctx context.Context, tx *gorm.DB, links []*types.TopicLesson) ([]*types.TopicLesson, error)
  ListByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.TopicLesson, error)
  FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
  FullDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type topicLessonRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTopicLessonRepo(db *gorm.DB, baseLog *logger.Logger) TopicLessonRepo {
  repoLog := baseLog.With("repo", "TopicLessonRepo")
  return &topicLessonRepo{db: db, log: repoLog}
}

func (r *topicLessonRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.TopicLesson) ([]*types.TopicLesson, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(links) == 0 {
    return []*types.TopicLesson{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
    return nil, err
  }
  return links, nil
}

func (r *topicLessonRepo) ListByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.TopicLesson, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.TopicLesson
  if len(topicIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("topic_id IN ?", topicIDs).
    Order(`topic_id, "order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *topicLessonRepo) FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lessonIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("lesson_id IN ?", lessonIDs).
    Delete(&types.TopicLesson{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *topicLessonRepo) FullDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(topicIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("topic_id IN ?", topicIDs).
    Delete(&types.TopicLesson{}).Error; err != nil {
    return err
  }
  return nil
}
