package api

import (
	"net/http"

	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 账号与令牌接口
type AuthHandler struct {
	auth   *service.AuthService
	alerts *service.AlertService
	logger *logrus.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(auth *service.AuthService, alerts *service.AlertService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, alerts: alerts, logger: logger}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 注册
// POST /api/auth/register {"username": "...", "email": "...", "password": "..."}
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Register", err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login 登录
// POST /api/auth/login {"username": "...", "password": "..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "Login", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "Login", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout 注销当前令牌
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, h.logger, "Logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RefreshToken 轮换令牌
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := h.auth.RefreshToken(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, "RefreshToken", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Profile 当前用户资料
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	profile, err := h.auth.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, "Profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetFavourites 收藏号码
// GET /api/account/favourites
func (h *AuthHandler) GetFavourites(c *gin.Context) {
	fav, err := h.alerts.Favourites(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, "GetFavourites", err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// UpdateFavourites 保存收藏号码
// PUT /api/account/favourites {"numbers": [7, 14], "stars": [3], "alerts_enabled": true}
func (h *AuthHandler) UpdateFavourites(c *gin.Context) {
	var req service.FavouritesUpdate
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "UpdateFavourites", err)
		return
	}
	fav, err := h.alerts.UpdateFavourites(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, h.logger, "UpdateFavourites", err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// ListAlerts 提醒列表
// GET /api/account/alerts
func (h *AuthHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, "ListAlerts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": alerts})
}

// CreateAlert 新建提醒
// POST /api/account/alerts {"type": "number_drawn", "params": {"number": 7}}
func (h *AuthHandler) CreateAlert(c *gin.Context) {
	var req service.AlertRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, "CreateAlert", err)
		return
	}
	alert, err := h.alerts.CreateAlert(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, h.logger, "CreateAlert", err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// ToggleAlert 启用/停用
// POST /api/account/alerts/:id/toggle
func (h *AuthHandler) ToggleAlert(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.logger, "ToggleAlert", err)
		return
	}
	alert, err := h.alerts.ToggleAlert(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, h.logger, "ToggleAlert", err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// DeleteAlert 删除提醒
// DELETE /api/account/alerts/:id
func (h *AuthHandler) DeleteAlert(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.logger, "DeleteAlert", err)
		return
	}
	if err := h.alerts.DeleteAlert(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, h.logger, "DeleteAlert", err)
		return
	}
	c.Status(http.StatusNoContent)
}
