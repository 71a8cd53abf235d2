package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type CourseTopicRepo interface {
  Create(ctx context.Context, tx *gorm.DB, links []*types.CourseTopic) ([]*types.CourseTopic, error)
  FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
  FullDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type courseTopicRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseTopicRepo(db *gorm.DB, baseLog *logger.Logger) CourseTopicRepo {
  repoLog := baseLog.With("repo", "CourseTopicRepo")
  return &courseTopicRepo{db: db, log: repoLog}
}

func (r *courseTopicRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.CourseTopic) ([]*types.CourseTopic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(links) == 0 {
    return []*types.CourseTopic{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
    return nil, err
  }
  return links, nil
}

func (r *courseTopicRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(courseIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("course_id IN ?", courseIDs).
    Delete(&types.CourseTopic{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *courseTopicRepo) FullDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
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
    Delete(&types.CourseTopic{}).Error; err != nil {
    return err
  }
  return nil
}
