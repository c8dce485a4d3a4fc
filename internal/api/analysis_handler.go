package api

import (
	"net/http"

	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler 模式与图表接口
type AnalysisHandler struct {
	analysis *service.AnalysisService
	logger   *logrus.Logger
}

// NewAnalysisHandler 创建 AnalysisHandler
func NewAnalysisHandler(analysis *service.AnalysisService, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, logger: logger}
}

// Patterns 完整模式分析
// GET /api/patterns
func (h *AnalysisHandler) Patterns(c *gin.Context) {
	report, err := h.analysis.Patterns(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Patterns", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Sequences 连号
// GET /api/patterns/sequences?length=3
func (h *AnalysisHandler) Sequences(c *gin.Context) {
	length, err := queryInt(c, "length", 2)
	if err != nil {
		respondError(c, h.logger, "Sequences", err)
		return
	}
	seqs, err := h.analysis.Sequences(c.Request.Context(), length)
	if err != nil {
		respondError(c, h.logger, "Sequences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"length": length, "results": seqs})
}

// SumTrend 和值走势
// GET /api/patterns/sum-trend?window=10
func (h *AnalysisHandler) SumTrend(c *gin.Context) {
	window, err := queryInt(c, "window", 0)
	if err != nil {
		respondError(c, h.logger, "SumTrend", err)
		return
	}
	trend, err := h.analysis.SumTrend(c.Request.Context(), window)
	if err != nil {
		respondError(c, h.logger, "SumTrend", err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// NumberFrequencies 主号频率图
// GET /api/charts/frequencies/numbers
func (h *AnalysisHandler) NumberFrequencies(c *gin.Context) {
	h.frequencies(c, false)
}

// StarFrequencies 星号频率图
// GET /api/charts/frequencies/stars
func (h *AnalysisHandler) StarFrequencies(c *gin.Context) {
	h.frequencies(c, true)
}

func (h *AnalysisHandler) frequencies(c *gin.Context, stars bool) {
	series, err := h.analysis.FrequencyChart(c.Request.Context(), stars)
	if err != nil {
		respondError(c, h.logger, "Frequencies", err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// Evolution 号码累计出现
// GET /api/charts/evolution/:number
func (h *AnalysisHandler) Evolution(c *gin.Context) {
	number, err := paramInt(c, "number")
	if err != nil {
		respondError(c, h.logger, "Evolution", err)
		return
	}
	series, err := h.analysis.Evolution(c.Request.Context(), number)
	if err != nil {
		respondError(c, h.logger, "Evolution", err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// FrequencyEvolution 号码按年频率
// GET /api/charts/frequency-evolution?number=7
func (h *AnalysisHandler) FrequencyEvolution(c *gin.Context) {
	number, err := queryInt(c, "number", 0)
	if err != nil {
		respondError(c, h.logger, "FrequencyEvolution", err)
		return
	}
	points, err := h.analysis.YearlyEvolution(c.Request.Context(), number)
	if err != nil {
		respondError(c, h.logger, "FrequencyEvolution", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number, "years": points})
}

// Heatmap 月度热力图
// GET /api/charts/heatmap-monthly
func (h *AnalysisHandler) Heatmap(c *gin.Context) {
	heatmap, err := h.analysis.Heatmap(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Heatmap", err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// Correlation 共现矩阵
// GET /api/charts/correlation
func (h *AnalysisHandler) Correlation(c *gin.Context) {
	corr, err := h.analysis.Correlation(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Correlation", err)
		return
	}
	c.JSON(http.StatusOK, corr)
}

// Weekday 星期分析
// GET /api/charts/weekday
func (h *AnalysisHandler) Weekday(c *gin.Context) {
	stats, err := h.analysis.Weekday(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Weekday", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": stats})
}

// Jackpot 头奖走势
// GET /api/charts/jackpot
func (h *AnalysisHandler) Jackpot(c *gin.Context) {
	series, err := h.analysis.Jackpot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Jackpot", err)
		return
	}
	c.JSON(http.StatusOK, series)
}
