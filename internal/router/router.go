package router

import (
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/handler"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/kakomon/kakomon-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz  *handler.QuizHandler
	Stats *handler.StatsHandler
	WS    *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// startLimiter may be nil, in which case session starts are not throttled.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	startLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request metrics, exposed on /metrics together with the quiz collectors.
	prom := ginprom.New(
		ginprom.Engine(router),
		ginprom.Namespace("kakomon"),
		ginprom.Subsystem("http"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/health", "/metrics"),
	)
	router.Use(prom.Instrument())

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Question figures change only on re-import.
	images := router.Group(cfg.ImageBaseURL)
	images.Use(middleware.CacheControl(86400))
	{
		images.Static("/", cfg.ImageDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(middleware.CacheControl(300))
	{
		publicAPI.GET("/years", handlers.Stats.ListYears)
		publicAPI.GET("/hard-questions", handlers.Stats.HardQuestions)
	}

	// ─── 1. Quiz Group (JWT) ───────────────────────────────────────────
	quizAPI := router.Group("/api/v1/quiz")
	quizAPI.Use(middleware.RequireUserJWT(authService), middleware.NoStore())
	{
		start := quizAPI.Group("")
		if startLimiter != nil {
			start.Use(startLimiter.Middleware())
		}
		start.POST("/single", handlers.Quiz.StartSingleYear)
		start.POST("/mix", handlers.Quiz.StartYearMix)
		start.POST("/retry", handlers.Quiz.StartRetry)

		quizAPI.GET("/session", handlers.Quiz.GetSession)
		quizAPI.PUT("/session/answers/:index", handlers.Quiz.Answer)
		quizAPI.POST("/session/submit", handlers.Quiz.Submit)
		quizAPI.GET("/session/result", handlers.Quiz.GetResult)
	}

	// ─── 2. Score History (JWT) ────────────────────────────────────────
	scoresAPI := router.Group("/api/v1/scores")
	scoresAPI.Use(middleware.RequireUserJWT(authService), middleware.NoStore())
	{
		scoresAPI.GET("/me", handlers.Stats.MyScores)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	// Browsers cannot set headers on the upgrade, so the token may
	// arrive as ?token=.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserJWT(authService))
	{
		ws.GET("/quiz/stream", handlers.WS.QuizStream)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
