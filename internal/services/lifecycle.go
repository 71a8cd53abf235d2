package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/openlearn/openlearn-backend/internal/cache"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/repos"
)

// LifecycleService removes a parent entity and every row that would become
// an orphan, children before parents, each cascade as one transaction.
// Nothing here relies on storage-level ON DELETE rules.
type LifecycleService interface {
  DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
  DeleteTopic(ctx context.Context, topicID uuid.UUID) error
  DeleteSubject(ctx context.Context, subjectID uuid.UUID) error
  DeleteCourse(ctx context.Context, courseID uuid.UUID) error
}

type lifecycleService struct {
  db              *gorm.DB
  log             *logger.Logger
  lessonRepo      repos.LessonRepo
  variantRepo     repos.LessonVariantRepo
  pageRepo        repos.ContentPageRepo
  blockRepo       repos.ContentBlockRepo
  topicRepo       repos.TopicRepo
  subjectRepo     repos.SubjectRepo
  courseRepo      repos.CourseRepo
  topicLessonRepo repos.TopicLessonRepo
  objectiveRepo   repos.LessonObjectiveRepo
  progressRepo    repos.UserProgressRepo
  attemptRepo     repos.UserAttemptRepo
  courseTopicRepo repos.CourseTopicRepo
  courseSubjRepo  repos.CourseSubjectRepo
  userCourseRepo  repos.UserCourseRepo
  pageCache       *cache.PageCache
}

func NewLifecycleService(
  db *gorm.DB,
  baseLog *logger.Logger,
  lessonRepo repos.LessonRepo,
  variantRepo repos.LessonVariantRepo,
  pageRepo repos.ContentPageRepo,
  blockRepo repos.ContentBlockRepo,
  topicRepo repos.TopicRepo,
  subjectRepo repos.SubjectRepo,
  courseRepo repos.CourseRepo,
  topicLessonRepo repos.TopicLessonRepo,
  objectiveRepo repos.LessonObjectiveRepo,
  progressRepo repos.UserProgressRepo,
  attemptRepo repos.UserAttemptRepo,
  courseTopicRepo repos.CourseTopicRepo,
  courseSubjRepo repos.CourseSubjectRepo,
  userCourseRepo repos.UserCourseRepo,
  pageCache *cache.PageCache,
) LifecycleService {
  return &lifecycleService{
    db:              db,
    log:             baseLog.With("service", "LifecycleService"),
    lessonRepo:      lessonRepo,
    variantRepo:     variantRepo,
    pageRepo:        pageRepo,
    blockRepo:       blockRepo,
    topicRepo:       topicRepo,
    subjectRepo:     subjectRepo,
    courseRepo:      courseRepo,
    topicLessonRepo: topicLessonRepo,
    objectiveRepo:   objectiveRepo,
    progressRepo:    progressRepo,
    attemptRepo:     attemptRepo,
    courseTopicRepo: courseTopicRepo,
    courseSubjRepo:  courseSubjRepo,
    userCourseRepo:  userCourseRepo,
    pageCache:       pageCache,
  }
}

func (s *lifecycleService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
  lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
  if err != nil {
    return fmt.Errorf("load lesson: %w", err)
  }
  if len(lessons) == 0 {
    return fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
  }

  var variantIDs []uuid.UUID
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ids := []uuid.UUID{lessonID}

    if err := s.topicLessonRepo.FullDeleteByLessonIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete topic links: %w", err)
    }
    if err := s.objectiveRepo.FullDeleteByLessonIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete objectives: %w", err)
    }
    if err := s.progressRepo.FullDeleteByLessonIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete progress: %w", err)
    }
    if err := s.attemptRepo.FullDeleteByLessonIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete attempts: %w", err)
    }

    // Principal pages, then each variant's pages, blocks first.
    pageIDs, err := s.pageRepo.IDsByLessonID(ctx, tx, lessonID)
    if err != nil {
      return fmt.Errorf("load lesson pages: %w", err)
    }
    variantIDs, err = s.variantRepo.IDsByLessonID(ctx, tx, lessonID)
    if err != nil {
      return fmt.Errorf("load variants: %w", err)
    }
    for _, vid := range variantIDs {
      vPageIDs, err := s.pageRepo.IDsByVariantID(ctx, tx, vid)
      if err != nil {
        return fmt.Errorf("load variant pages: %w", err)
      }
      pageIDs = append(pageIDs, vPageIDs...)
    }

    if err := s.blockRepo.FullDeleteByPageIDs(ctx, tx, pageIDs); err != nil {
      return fmt.Errorf("delete blocks: %w", err)
    }
    if err := s.pageRepo.FullDeleteByIDs(ctx, tx, pageIDs); err != nil {
      return fmt.Errorf("delete pages: %w", err)
    }
    if err := s.variantRepo.FullDeleteByIDs(ctx, tx, variantIDs); err != nil {
      return fmt.Errorf("delete variants: %w", err)
    }
    if err := s.lessonRepo.FullDeleteByIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete lesson: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeleteLesson failed", "error", err, "lesson_id", lessonID)
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, LessonScope(lessonID).Key())
  for _, vid := range variantIDs {
    s.pageCache.Invalidate(ctx, VariantScope(vid).Key())
  }
  return nil
}

func (s *lifecycleService) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
  topics, err := s.topicRepo.GetByIDs(ctx, nil, []uuid.UUID{topicID})
  if err != nil {
    return fmt.Errorf("load topic: %w", err)
  }
  if len(topics) == 0 {
    return fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return s.deleteTopicTx(ctx, tx, topicID)
  })
  if err != nil {
    s.log.Error("DeleteTopic failed", "error", err, "topic_id", topicID)
    return translateDBError(err)
  }
  return nil
}

func (s *lifecycleService) deleteTopicTx(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) error {
  ids := []uuid.UUID{topicID}
  if err := s.courseTopicRepo.FullDeleteByTopicIDs(ctx, tx, ids); err != nil {
    return fmt.Errorf("delete course links: %w", err)
  }
  if err := s.topicLessonRepo.FullDeleteByTopicIDs(ctx, tx, ids); err != nil {
    return fmt.Errorf("delete lesson links: %w", err)
  }
  if err := s.progressRepo.FullDeleteByTopicIDs(ctx, tx, ids); err != nil {
    return fmt.Errorf("delete progress: %w", err)
  }
  if err := s.topicRepo.FullDeleteByIDs(ctx, tx, ids); err != nil {
    return fmt.Errorf("delete topic: %w", err)
  }
  return nil
}

func (s *lifecycleService) DeleteSubject(ctx context.Context, subjectID uuid.UUID) error {
  subjects, err := s.subjectRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
  if err != nil {
    return fmt.Errorf("load subject: %w", err)
  }
  if len(subjects) == 0 {
    return fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    topicIDs, err := s.topicRepo.IDsBySubjectID(ctx, tx, subjectID)
    if err != nil {
      return fmt.Errorf("load child topics: %w", err)
    }
    for _, tid := range topicIDs {
      if err := s.deleteTopicTx(ctx, tx, tid); err != nil {
        return fmt.Errorf("cascade topic %s: %w", tid, err)
      }
    }
    if err := s.courseSubjRepo.FullDeleteBySubjectIDs(ctx, tx, []uuid.UUID{subjectID}); err != nil {
      return fmt.Errorf("delete course links: %w", err)
    }
    if err := s.subjectRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{subjectID}); err != nil {
      return fmt.Errorf("delete subject: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeleteSubject failed", "error", err, "subject_id", subjectID)
    return translateDBError(err)
  }
  return nil
}

func (s *lifecycleService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
  courses, err := s.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
  if err != nil {
    return fmt.Errorf("load course: %w", err)
  }
  if len(courses) == 0 {
    return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ids := []uuid.UUID{courseID}
    if err := s.courseSubjRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete subject links: %w", err)
    }
    if err := s.courseTopicRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete topic links: %w", err)
    }
    if err := s.userCourseRepo.FullDeleteByCourseIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete enrollments: %w", err)
    }
    if err := s.courseRepo.FullDeleteByIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("delete course: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeleteCourse failed", "error", err, "course_id", courseID)
    return translateDBError(err)
  }
  return nil
}
