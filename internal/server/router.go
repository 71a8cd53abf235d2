package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/openlearn/openlearn-backend/internal/handlers"
  "github.com/openlearn/openlearn-backend/internal/middleware"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type RouterConfig struct {
  ServiceName    string
  AllowOrigins   []string
  AuthHandler    *handlers.AuthHandler
  AuthMiddleware *middleware.AuthMiddleware
  LessonHandler  *handlers.LessonHandler
  ContentHandler *handlers.ContentHandler
  VariantHandler *handlers.VariantHandler
  CourseHandler  *handlers.CourseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware(cfg.ServiceName))

  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  // Reads: any authenticated user
  api.GET("/lessons", cfg.LessonHandler.ListLessons)
  api.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
  api.GET("/lessons/:id/pages", cfg.ContentHandler.ListPages)
  api.GET("/lessons/:id/pages/:pageId", cfg.ContentHandler.GetPage)
  api.GET("/lessons/:id/pages/:pageId/blocks/:blockId", cfg.ContentHandler.GetBlock)
  api.GET("/lessons/:id/variants", cfg.VariantHandler.ListVariants)

  // Mutations: editors and admins only
  edit := api.Group("/")
  edit.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin, types.RoleEditor))

  edit.POST("/lessons", cfg.LessonHandler.CreateLesson)
  edit.PATCH("/lessons/:id", cfg.LessonHandler.UpdateLesson)
  edit.DELETE("/lessons/:id", cfg.LessonHandler.DeleteLesson)

  edit.POST("/lessons/:id/pages", cfg.ContentHandler.CreatePage)
  edit.PUT("/lessons/:id/pages/reorder", cfg.ContentHandler.ReorderPages)
  edit.PATCH("/lessons/:id/pages/:pageId", cfg.ContentHandler.UpdatePage)
  edit.DELETE("/lessons/:id/pages/:pageId", cfg.ContentHandler.DeletePage)

  edit.POST("/lessons/:id/pages/:pageId/blocks", cfg.ContentHandler.CreateBlock)
  edit.PUT("/lessons/:id/pages/:pageId/blocks/reorder", cfg.ContentHandler.ReorderBlocks)
  edit.PATCH("/lessons/:id/pages/:pageId/blocks/:blockId", cfg.ContentHandler.UpdateBlock)
  edit.DELETE("/lessons/:id/pages/:pageId/blocks/:blockId", cfg.ContentHandler.DeleteBlock)

  edit.POST("/lessons/:id/variants", cfg.VariantHandler.CreateVariant)
  edit.PATCH("/lessons/:id/variants/:variantId", cfg.VariantHandler.UpdateVariant)
  edit.DELETE("/lessons/:id/variants/:variantId", cfg.VariantHandler.DeleteVariant)
  edit.POST("/lessons/:id/variants/:variantId/default", cfg.VariantHandler.SetDefaultVariant)

  edit.DELETE("/topics/:id", cfg.CourseHandler.DeleteTopic)
  edit.DELETE("/subjects/:id", cfg.CourseHandler.DeleteSubject)
  edit.DELETE("/courses/:id", cfg.CourseHandler.DeleteCourse)

  return router
}
