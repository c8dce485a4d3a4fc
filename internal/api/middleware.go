package api

import (
	"net/http"
	"strings"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userKey = "auth_user"

// tokenFromHeader 支持 "Token <key>" 和 "Bearer <key>"
func tokenFromHeader(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1]
	}
	return ""
}

// RequireAuth 校验令牌并把用户放入上下文
func RequireAuth(auth *service.AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request.Context(), tokenFromHeader(c.GetHeader("Authorization")))
		if err != nil {
			respondError(c, logger, "authenticate", err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth 有合法令牌时放入用户，无令牌时放行
func OptionalAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := tokenFromHeader(c.GetHeader("Authorization")); key != "" {
			if user, err := auth.Authenticate(c.Request.Context(), key); err == nil {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

// RequireStaff 需在 RequireAuth 之后
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsStaff {
			err := apperr.New(apperr.CodeForbidden, "staff only", nil)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Code, "message": err.Message})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

func currentUserID(c *gin.Context) *uint64 {
	if u := currentUser(c); u != nil {
		id := u.ID
		return &id
	}
	return nil
}
