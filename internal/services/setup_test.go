package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openlearn/openlearn-backend/internal/logger"
	"github.com/openlearn/openlearn-backend/internal/repos"
	"github.com/openlearn/openlearn-backend/internal/types"
)

const testTokenTTL = time.Hour

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// newTestDB opens an in-memory sqlite database. The pool is pinned to a
// single connection so every session sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&types.User{},
		&types.Course{},
		&types.Subject{},
		&types.Topic{},
		&types.Lesson{},
		&types.LessonVariant{},
		&types.ContentPage{},
		&types.ContentBlock{},
		&types.LessonObjective{},
		&types.TopicLesson{},
		&types.CourseTopic{},
		&types.CourseSubject{},
		&types.UserCourse{},
		&types.UserProgress{},
		&types.UserAttempt{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db              *gorm.DB
	log             *logger.Logger
	lessonRepo      repos.LessonRepo
	variantRepo     repos.LessonVariantRepo
	pageRepo        repos.ContentPageRepo
	blockRepo       repos.ContentBlockRepo
	userRepo        repos.UserRepo
	lesson          LessonService
	variant         VariantService
	content         ContentService
	lifecycle       LifecycleService
	auth            AuthService
	topicRepo       repos.TopicRepo
	subjectRepo     repos.SubjectRepo
	courseRepo      repos.CourseRepo
	topicLessonRepo repos.TopicLessonRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()

	env := &testEnv{
		db:              db,
		log:             log,
		lessonRepo:      repos.NewLessonRepo(db, log),
		variantRepo:     repos.NewLessonVariantRepo(db, log),
		pageRepo:        repos.NewContentPageRepo(db, log),
		blockRepo:       repos.NewContentBlockRepo(db, log),
		userRepo:        repos.NewUserRepo(db, log),
		topicRepo:       repos.NewTopicRepo(db, log),
		subjectRepo:     repos.NewSubjectRepo(db, log),
		courseRepo:      repos.NewCourseRepo(db, log),
		topicLessonRepo: repos.NewTopicLessonRepo(db, log),
	}
	env.lesson = NewLessonService(db, log, env.lessonRepo)
	env.variant = NewVariantService(db, log, env.lessonRepo, env.variantRepo, env.pageRepo, env.blockRepo, nil)
	env.content = NewContentService(db, log, env.pageRepo, env.blockRepo, nil)
	env.lifecycle = NewLifecycleService(
		db, log,
		env.lessonRepo, env.variantRepo, env.pageRepo, env.blockRepo,
		env.topicRepo, env.subjectRepo, env.courseRepo,
		env.topicLessonRepo,
		repos.NewLessonObjectiveRepo(db, log),
		repos.NewUserProgressRepo(db, log),
		repos.NewUserAttemptRepo(db, log),
		repos.NewCourseTopicRepo(db, log),
		repos.NewCourseSubjectRepo(db, log),
		repos.NewUserCourseRepo(db, log),
		nil,
	)
	env.auth = NewAuthService(db, log, env.userRepo, "test-secret", testTokenTTL)
	return env
}

func (env *testEnv) mustCreateLesson(t *testing.T, name string) *types.Lesson {
	t.Helper()
	lesson, err := env.lesson.CreateLesson(context.Background(), nil, LessonInput{Name: name})
	if err != nil {
		t.Fatalf("create lesson %q: %v", name, err)
	}
	return lesson
}

func (env *testEnv) mustCreateVariant(t *testing.T, lessonID uuid.UUID, name, slug string) *types.LessonVariant {
	t.Helper()
	variant, err := env.variant.CreateVariant(context.Background(), lessonID, VariantInput{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create variant %q: %v", slug, err)
	}
	return variant
}

func (env *testEnv) mustCreatePage(t *testing.T, scope Scope, name string) *types.ContentPage {
	t.Helper()
	page, err := env.content.CreatePage(context.Background(), nil, scope, name, nil)
	if err != nil {
		t.Fatalf("create page %q: %v", name, err)
	}
	return page
}
