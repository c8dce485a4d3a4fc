package api

import (
	"errors"
	"io"
	"net/http"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"
	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BetHandler 投注生成与核对接口
type BetHandler struct {
	bets   *service.BetService
	logger *logrus.Logger
}

// NewBetHandler 创建 BetHandler
func NewBetHandler(bets *service.BetService, logger *logrus.Logger) *BetHandler {
	return &BetHandler{bets: bets, logger: logger}
}

// PickRequest 核对/模拟请求体
type PickRequest struct {
	Numbers []int   `json:"numbers"`
	Stars   []int   `json:"stars"`
	DrawID  *uint64 `json:"draw_id"`
}

// TargetRequest 已存投注的核对目标，draw_id 为空取最新一期
type TargetRequest struct {
	DrawID *uint64 `json:"draw_id"`
}

// bindOptionalJSON 允许空请求体
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.InvalidPayload("invalid JSON body: %v", err)
	}
	return nil
}

// ListBets 生成记录（带令牌时只看自己的）
// GET /api/bets?strategy=random&page=1&page_size=20
func (h *BetHandler) ListBets(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, h.logger, "ListBets", err)
		return
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		respondError(c, h.logger, "ListBets", err)
		return
	}
	filter := repository.BetFilter{UserID: currentUserID(c), Strategy: c.Query("strategy")}
	result, err := h.bets.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, "ListBets", err)
		return
	}
	result.Items = viewBets(result.Items.([]*model.GeneratedBet))
	c.JSON(http.StatusOK, result)
}

// GenerateBets 生成投注
// POST /api/bets/generate {"strategy": "balanced", "quantity": 3}
func (h *BetHandler) GenerateBets(c *gin.Context) {
	var req service.GenerateRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "GenerateBets", err)
		return
	}
	req.UserID = currentUserID(c)
	bets, err := h.bets.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "GenerateBets", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"strategy": req.Strategy, "bets": viewBets(bets)})
}

// VerifyBet 核对已生成的投注
// POST /api/bets/:id/verify {"draw_id": 12}
func (h *BetHandler) VerifyBet(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.logger, "VerifyBet", err)
		return
	}
	var req TargetRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, h.logger, "VerifyBet", err)
		return
	}
	v, err := h.bets.VerifyStored(c.Request.Context(), id, req.DrawID)
	if err != nil {
		respondError(c, h.logger, "VerifyBet", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// CreateMultiple 复式投注
// POST /api/bets/multiple {"numbers": [1,2,3,4,5,6], "stars": [1,2,3]}
func (h *BetHandler) CreateMultiple(c *gin.Context) {
	var req service.MultipleRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "CreateMultiple", err)
		return
	}
	req.UserID = currentUserID(c)
	bet, err := h.bets.CreateMultiple(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateMultiple", err)
		return
	}
	c.JSON(http.StatusCreated, viewMultiple(bet))
}

// VerifyMultiple 核对复式投注
// POST /api/bets/multiple/:id/verify
func (h *BetHandler) VerifyMultiple(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.logger, "VerifyMultiple", err)
		return
	}
	var req TargetRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, h.logger, "VerifyMultiple", err)
		return
	}
	v, err := h.bets.VerifyMultiple(c.Request.Context(), id, req.DrawID)
	if err != nil {
		respondError(c, h.logger, "VerifyMultiple", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Verify 核对任意号码
// POST /api/verify {"numbers": [...], "stars": [...], "draw_id": 1}
func (h *BetHandler) Verify(c *gin.Context) {
	var req PickRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Verify", err)
		return
	}
	v, err := h.bets.Verify(c.Request.Context(), req.Numbers, req.Stars, req.DrawID)
	if err != nil {
		respondError(c, h.logger, "Verify", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Simulate 历史回放
// POST /api/simulate {"numbers": [...], "stars": [...]}
func (h *BetHandler) Simulate(c *gin.Context) {
	var req PickRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Simulate", err)
		return
	}
	sim, err := h.bets.Simulate(c.Request.Context(), req.Numbers, req.Stars)
	if err != nil {
		respondError(c, h.logger, "Simulate", err)
		return
	}
	c.JSON(http.StatusOK, sim)
}
