package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"conduit/internal/auth"
	"conduit/internal/metrics"
	"conduit/internal/service"
)

// Services bundles the domain services the handler dispatches to.
// Media may be nil when object storage is not configured.
type Services struct {
	Users    service.UserService
	Profiles service.ProfileService
	Tags     service.TagService
	Articles service.ArticleService
	Media    service.MediaService
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	profiles service.ProfileService
	tags     service.TagService
	articles service.ArticleService
	media    service.MediaService
	tokens   *auth.Tokens
	metrics  *metrics.Metrics
	limiter  *RateLimiter
	logger   *logrus.Logger
}

func NewHandler(svc Services, tokens *auth.Tokens, m *metrics.Metrics, limiter *RateLimiter, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		users:    svc.Users,
		profiles: svc.Profiles,
		tags:     svc.Tags,
		articles: svc.Articles,
		media:    svc.Media,
		tokens:   tokens,
		metrics:  m,
		limiter:  limiter,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), h.loggingMiddleware(), h.metrics.Middleware(), corsMiddleware())

	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/users", h.limiter.Middleware(), h.register)
		api.POST("/users/login", h.limiter.Middleware(), h.login)
		api.GET("/user", h.requireAuth(), h.currentUser)
		api.PUT("/user", h.requireAuth(), h.updateUser)
		api.POST("/user/image", h.requireAuth(), h.uploadImage)

		api.GET("/profiles/:username", h.optionalAuth(), h.getProfile)
		api.POST("/profiles/:username/follow", h.requireAuth(), h.follow)
		api.DELETE("/profiles/:username/follow", h.requireAuth(), h.unfollow)

		api.GET("/tags", h.listTags)

		api.POST("/articles", h.requireAuth(), h.createArticle)
		api.GET("/articles", h.optionalAuth(), h.listArticles)
		api.GET("/articles/feed", h.optionalAuth(), h.feed)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}
