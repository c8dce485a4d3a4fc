package api

import (
	"net/http"
	"time"

	"EuroAnalyzer/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// RegisterRoutes 注册全部 /api 接口
func RegisterRoutes(r gin.IRouter, a *app.App) {
	logger := a.Logger
	drawHandler := NewDrawHandler(a.Draws, logger)
	statsHandler := NewStatisticsHandler(a.Statistics, a.Scheduler, logger)
	analysisHandler := NewAnalysisHandler(a.Analysis, logger)
	predictionHandler := NewPredictionHandler(a.Predictions, logger)
	betHandler := NewBetHandler(a.Bets, logger)
	authHandler := NewAuthHandler(a.Auth, a.Alerts, logger)

	requireAuth := RequireAuth(a.Auth, logger)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "time": time.Now().UTC()})
	})

	draws := api.Group("/draws")
	draws.GET("", drawHandler.ListDraws)
	draws.GET("/latest", drawHandler.LatestDraw)
	draws.GET("/by-year", drawHandler.DrawsByYear)
	draws.GET("/:id", drawHandler.GetDraw)

	stats := api.Group("/statistics")
	stats.GET("", statsHandler.Summary)
	stats.GET("/numbers", statsHandler.ListNumbers)
	stats.GET("/numbers/hot", statsHandler.RankedNumbers("hot"))
	stats.GET("/numbers/cold", statsHandler.RankedNumbers("cold"))
	stats.GET("/numbers/overdue", statsHandler.RankedNumbers("overdue"))
	stats.GET("/numbers/:value", statsHandler.GetNumber)
	stats.GET("/stars", statsHandler.ListStars)
	stats.GET("/stars/hot", statsHandler.RankedStars("hot"))
	stats.GET("/stars/cold", statsHandler.RankedStars("cold"))
	stats.GET("/stars/overdue", statsHandler.RankedStars("overdue"))
	stats.GET("/stars/:value", statsHandler.GetStar)
	stats.GET("/distribution", statsHandler.Distribution)
	stats.POST("/refresh", requireAuth, RequireStaff(), statsHandler.Refresh)

	patterns := api.Group("/patterns")
	patterns.GET("", analysisHandler.Patterns)
	patterns.GET("/sequences", analysisHandler.Sequences)
	patterns.GET("/sum-trend", analysisHandler.SumTrend)

	ml := api.Group("/ml")
	ml.GET("/prediction", predictionHandler.Prediction)
	ml.GET("/ranking", predictionHandler.Ranking)
	ml.GET("/precision", predictionHandler.Precision)

	charts := api.Group("/charts")
	charts.GET("/frequencies/numbers", analysisHandler.NumberFrequencies)
	charts.GET("/frequencies/stars", analysisHandler.StarFrequencies)
	charts.GET("/evolution/:number", analysisHandler.Evolution)
	charts.GET("/frequency-evolution", analysisHandler.FrequencyEvolution)
	charts.GET("/heatmap-monthly", analysisHandler.Heatmap)
	charts.GET("/correlation", analysisHandler.Correlation)
	charts.GET("/weekday", analysisHandler.Weekday)
	charts.GET("/jackpot", analysisHandler.Jackpot)

	bets := api.Group("/bets")
	bets.GET("", OptionalAuth(a.Auth), betHandler.ListBets)
	bets.POST("/generate", requireAuth, betHandler.GenerateBets)
	bets.POST("/:id/verify", betHandler.VerifyBet)
	bets.POST("/multiple", requireAuth, betHandler.CreateMultiple)
	bets.POST("/multiple/:id/verify", betHandler.VerifyMultiple)
	api.POST("/verify", betHandler.Verify)
	api.POST("/simulate", betHandler.Simulate)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", requireAuth, authHandler.Logout)
	auth.POST("/refresh", requireAuth, authHandler.RefreshToken)
	auth.GET("/profile", requireAuth, authHandler.Profile)

	account := api.Group("/account", requireAuth)
	account.GET("/favourites", authHandler.GetFavourites)
	account.PUT("/favourites", authHandler.UpdateFavourites)
	account.GET("/alerts", authHandler.ListAlerts)
	account.POST("/alerts", authHandler.CreateAlert)
	account.POST("/alerts/:id/toggle", authHandler.ToggleAlert)
	account.DELETE("/alerts/:id", authHandler.DeleteAlert)
}

// WithCORS 用 rs/cors 包装路由
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}).Handler(h)
}
