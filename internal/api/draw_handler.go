package api

import (
	"net/http"

	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"
	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DrawHandler 开奖查询接口
type DrawHandler struct {
	draws  *service.DrawService
	logger *logrus.Logger
}

// NewDrawHandler 创建 DrawHandler
func NewDrawHandler(draws *service.DrawService, logger *logrus.Logger) *DrawHandler {
	return &DrawHandler{draws: draws, logger: logger}
}

func parseDrawFilter(c *gin.Context) (repository.DrawFilter, error) {
	var f repository.DrawFilter
	var err error
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	if f.Year, err = queryInt(c, "year", 0); err != nil {
		return f, err
	}
	if f.Month, err = queryInt(c, "month", 0); err != nil {
		return f, err
	}
	if f.Number, err = queryInt(c, "number", 0); err != nil {
		return f, err
	}
	if f.Star, err = queryInt(c, "star", 0); err != nil {
		return f, err
	}
	f.Winner, err = queryBool(c, "winner")
	return f, err
}

// ListDraws 开奖列表
// GET /api/draws?from=2024-01-01&to=2024-12-31&year=2024&month=1&number=7&star=3&winner=true&page=1&page_size=20
func (h *DrawHandler) ListDraws(c *gin.Context) {
	filter, err := parseDrawFilter(c)
	if err != nil {
		respondError(c, h.logger, "ListDraws", err)
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, h.logger, "ListDraws", err)
		return
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		respondError(c, h.logger, "ListDraws", err)
		return
	}

	result, err := h.draws.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, "ListDraws", err)
		return
	}
	draws := result.Items.([]*model.Draw)
	result.Items = viewDraws(draws)
	c.JSON(http.StatusOK, result)
}

// LatestDraw 最新一期
// GET /api/draws/latest
func (h *DrawHandler) LatestDraw(c *gin.Context) {
	draw, err := h.draws.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "LatestDraw", err)
		return
	}
	c.JSON(http.StatusOK, viewDraw(*draw))
}

// DrawsByYear 每年期数
// GET /api/draws/by-year
func (h *DrawHandler) DrawsByYear(c *gin.Context) {
	rows, err := h.draws.ByYear(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "DrawsByYear", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": rows})
}

// GetDraw 单期详情
// GET /api/draws/:id
func (h *DrawHandler) GetDraw(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.logger, "GetDraw", err)
		return
	}
	draw, err := h.draws.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetDraw", err)
		return
	}
	c.JSON(http.StatusOK, viewDraw(*draw))
}
