package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/openlearn/openlearn-backend/internal/cache"
  "github.com/openlearn/openlearn-backend/internal/db"
  "github.com/openlearn/openlearn-backend/internal/handlers"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/middleware"
  "github.com/openlearn/openlearn-backend/internal/observability"
  "github.com/openlearn/openlearn-backend/internal/repos"
  "github.com/openlearn/openlearn-backend/internal/server"
  "github.com/openlearn/openlearn-backend/internal/services"
  "github.com/openlearn/openlearn-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

  // Tracing
  shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "openlearn-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownTracing != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      if err := shutdownTracing(ctx); err != nil {
        log.Warn("Tracing shutdown failed", "error", err)
      }
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Page cache (optional; a nil cache disables caching)
  pageCache, err := cache.NewPageCache(log)
  if err != nil {
    log.Warn("Page cache disabled", "error", err)
    pageCache = nil
  } else {
    defer pageCache.Close()
  }

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  courseRepo := repos.NewCourseRepo(thePG, log)
  subjectRepo := repos.NewSubjectRepo(thePG, log)
  topicRepo := repos.NewTopicRepo(thePG, log)
  lessonRepo := repos.NewLessonRepo(thePG, log)
  variantRepo := repos.NewLessonVariantRepo(thePG, log)
  pageRepo := repos.NewContentPageRepo(thePG, log)
  blockRepo := repos.NewContentBlockRepo(thePG, log)
  objectiveRepo := repos.NewLessonObjectiveRepo(thePG, log)
  topicLessonRepo := repos.NewTopicLessonRepo(thePG, log)
  courseTopicRepo := repos.NewCourseTopicRepo(thePG, log)
  courseSubjectRepo := repos.NewCourseSubjectRepo(thePG, log)
  userCourseRepo := repos.NewUserCourseRepo(thePG, log)
  progressRepo := repos.NewUserProgressRepo(thePG, log)
  attemptRepo := repos.NewUserAttemptRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
  lessonService := services.NewLessonService(thePG, log, lessonRepo)
  variantService := services.NewVariantService(thePG, log, lessonRepo, variantRepo, pageRepo, blockRepo, pageCache)
  contentService := services.NewContentService(thePG, log, pageRepo, blockRepo, pageCache)
  lifecycleService := services.NewLifecycleService(
    thePG,
    log,
    lessonRepo,
    variantRepo,
    pageRepo,
    blockRepo,
    topicRepo,
    subjectRepo,
    courseRepo,
    topicLessonRepo,
    objectiveRepo,
    progressRepo,
    attemptRepo,
    courseTopicRepo,
    courseSubjectRepo,
    userCourseRepo,
    pageCache,
  )

  if err := authService.SeedAdmin(context.Background()); err != nil {
    log.Warn("Admin seeding failed", "error", err)
  }

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(log, authService)
  lessonHandler := handlers.NewLessonHandler(log, lessonService, lifecycleService)
  contentHandler := handlers.NewContentHandler(log, contentService, variantService)
  variantHandler := handlers.NewVariantHandler(log, variantService)
  courseHandler := handlers.NewCourseHandler(log, lifecycleService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  var origins []string
  if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
    for _, o := range strings.Split(raw, ",") {
      if o = strings.TrimSpace(o); o != "" {
        origins = append(origins, o)
      }
    }
  }
  router := server.NewRouter(server.RouterConfig{
    ServiceName:    "openlearn-backend",
    AllowOrigins:   origins,
    AuthHandler:    authHandler,
    AuthMiddleware: authMiddleware,
    LessonHandler:  lessonHandler,
    ContentHandler: contentHandler,
    VariantHandler: variantHandler,
    CourseHandler:  courseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
