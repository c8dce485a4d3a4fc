package api

import (
	"net/http"

	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PredictionHandler 打分预测接口
type PredictionHandler struct {
	predictions *service.PredictionService
	logger      *logrus.Logger
}

// NewPredictionHandler 创建 PredictionHandler
func NewPredictionHandler(predictions *service.PredictionService, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{predictions: predictions, logger: logger}
}

// Prediction 按策略预测一注
// GET /api/ml/prediction?strategy=balanced
func (h *PredictionHandler) Prediction(c *gin.Context) {
	prediction, err := h.predictions.Predict(c.Request.Context(), c.DefaultQuery("strategy", "balanced"))
	if err != nil {
		respondError(c, h.logger, "Prediction", err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// Ranking 得分排行
// GET /api/ml/ranking
func (h *PredictionHandler) Ranking(c *gin.Context) {
	ranking, err := h.predictions.Ranking(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Ranking", err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

// Precision 历史回测
// GET /api/ml/precision?window=100
func (h *PredictionHandler) Precision(c *gin.Context) {
	window, err := queryInt(c, "window", 100)
	if err != nil {
		respondError(c, h.logger, "Precision", err)
		return
	}
	report, err := h.predictions.Precision(c.Request.Context(), window)
	if err != nil {
		respondError(c, h.logger, "Precision", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
