package api

import (
	"context"
	"net/http"

	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/scheduler"
	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Refresher 手动触发刷新任务
type Refresher interface {
	RunOnce(ctx context.Context) (*scheduler.Result, error)
}

// StatisticsHandler 统计接口
type StatisticsHandler struct {
	stats     *service.StatisticsService
	refresher Refresher
	logger    *logrus.Logger
}

// NewStatisticsHandler 创建 StatisticsHandler
func NewStatisticsHandler(stats *service.StatisticsService, refresher Refresher, logger *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{stats: stats, refresher: refresher, logger: logger}
}

// Summary 概览
// GET /api/statistics
func (h *StatisticsHandler) Summary(c *gin.Context) {
	summary, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseStatQuery(c *gin.Context) (service.StatQuery, error) {
	q := service.StatQuery{Order: c.Query("order")}
	var err error
	if q.From, err = queryDate(c, "from"); err != nil {
		return q, err
	}
	q.To, err = queryDate(c, "to")
	return q, err
}

// ListNumbers 主号统计
// GET /api/statistics/numbers?order=frequency&from=2020-01-01&to=2024-12-31
func (h *StatisticsHandler) ListNumbers(c *gin.Context) {
	h.list(c, false)
}

// ListStars 星号统计
// GET /api/statistics/stars?order=frequency
func (h *StatisticsHandler) ListStars(c *gin.Context) {
	h.list(c, true)
}

func (h *StatisticsHandler) list(c *gin.Context, stars bool) {
	q, err := parseStatQuery(c)
	if err != nil {
		respondError(c, h.logger, "ListStatistics", err)
		return
	}
	var values []lottery.ValueStat
	if stars {
		values, err = h.stats.Stars(c.Request.Context(), q)
	} else {
		values, err = h.stats.Numbers(c.Request.Context(), q)
	}
	if err != nil {
		respondError(c, h.logger, "ListStatistics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": values, "count": len(values)})
}

// RankedNumbers hot/cold/overdue 主号排行
// GET /api/statistics/numbers/hot?limit=10
func (h *StatisticsHandler) RankedNumbers(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ranked(c, kind, false)
	}
}

// RankedStars hot/cold/overdue 星号排行
// GET /api/statistics/stars/cold?limit=5
func (h *StatisticsHandler) RankedStars(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ranked(c, kind, true)
	}
}

func (h *StatisticsHandler) ranked(c *gin.Context, kind string, stars bool) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, h.logger, "Ranked", err)
		return
	}
	var values []lottery.ValueStat
	if stars {
		values, err = h.stats.RankedStars(c.Request.Context(), kind, limit)
	} else {
		values, err = h.stats.RankedNumbers(c.Request.Context(), kind, limit)
	}
	if err != nil {
		respondError(c, h.logger, "Ranked", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "results": values})
}

// GetNumber 单个主号
// GET /api/statistics/numbers/:value
func (h *StatisticsHandler) GetNumber(c *gin.Context) {
	value, err := paramInt(c, "value")
	if err != nil {
		respondError(c, h.logger, "GetNumber", err)
		return
	}
	stat, err := h.stats.Number(c.Request.Context(), value)
	if err != nil {
		respondError(c, h.logger, "GetNumber", err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

// GetStar 单个星号
// GET /api/statistics/stars/:value
func (h *StatisticsHandler) GetStar(c *gin.Context) {
	value, err := paramInt(c, "value")
	if err != nil {
		respondError(c, h.logger, "GetStar", err)
		return
	}
	stat, err := h.stats.Star(c.Request.Context(), value)
	if err != nil {
		respondError(c, h.logger, "GetStar", err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

// Distribution 分布分析
// GET /api/statistics/distribution?from=&to=
func (h *StatisticsHandler) Distribution(c *gin.Context) {
	q, err := parseStatQuery(c)
	if err != nil {
		respondError(c, h.logger, "Distribution", err)
		return
	}
	d, err := h.stats.Distribution(c.Request.Context(), q.From, q.To)
	if err != nil {
		respondError(c, h.logger, "Distribution", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Refresh 手动刷新（仅管理员）
// POST /api/statistics/refresh
func (h *StatisticsHandler) Refresh(c *gin.Context) {
	res, err := h.refresher.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Refresh", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
