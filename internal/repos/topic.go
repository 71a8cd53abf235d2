package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type TopicRepo interface {
  Create(ctx context.Context, tx *gorm.DB, topic *types.Topic) (*types.Topic, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error)
  IDsBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]uuid.UUID, error)
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type topicRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
  repoLog := baseLog.With("repo", "TopicRepo")
  return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topic *types.Topic) (*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(topic).Error; err != nil {
    return nil, err
  }
  return topic, nil
}

func (r *topicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Topic
  if len(topicIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", topicIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *topicRepo) IDsBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.Topic{}).
    Where("subject_id = ?", subjectID).
    Pluck("id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *topicRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(topicIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", topicIDs).
    Delete(&types.Topic{}).Error; err != nil {
    return err
  }
  return nil
}
