// Package web 服务端渲染页面，模板随二进制嵌入
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"EuroAnalyzer/internal/app"
	"EuroAnalyzer/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"dashboard", "draws", "draw", "number", "statistics",
	"patterns", "charts", "prediction", "generator", "verifier",
}

var funcs = template.FuncMap{
	"pad": func(v int) string { return fmt.Sprintf("%02d", v) },
	"join": func(values []int) string {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%02d", v)
		}
		return strings.Join(parts, " - ")
	},
	"date": func(t interface{}) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("2006-01-02")
		case *time.Time:
			if v == nil {
				return "-"
			}
			return v.Format("2006-01-02")
		}
		return "-"
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"add": func(a, b int) int { return a + b },
	// bar 按最大值折算成 0-100 的宽度
	"bar": func(v, max int) int {
		if max <= 0 {
			return 0
		}
		return v * 100 / max
	},
}

// Handler 页面处理器
type Handler struct {
	app    *app.App
	logger *logrus.Logger
	pages  map[string]*template.Template
}

// NewHandler 解析全部页面模板，每页与 layout 组合成独立模板
func NewHandler(a *app.App) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("解析页面模板 %s 失败: %w", name, err)
		}
		pages[name] = t
	}
	return &Handler{app: a, logger: a.Logger, pages: pages}, nil
}

// Register 注册页面路由
func Register(r gin.IRouter, a *app.App) error {
	h, err := NewHandler(a)
	if err != nil {
		return err
	}
	r.GET("/", h.Dashboard)
	r.GET("/draws", h.Draws)
	r.GET("/draws/:id", h.Draw)
	r.GET("/numbers/:value", h.Number)
	r.GET("/statistics", h.Statistics)
	r.GET("/patterns", h.Patterns)
	r.GET("/charts", h.Charts)
	r.GET("/prediction", h.Prediction)
	r.GET("/generator", h.GeneratorForm)
	r.POST("/generator", h.Generate)
	r.GET("/verifier", h.VerifierForm)
	r.POST("/verifier", h.Verify)
	return nil
}

func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Page"] = page
	c.Render(status, render.HTML{Template: h.pages[page], Name: "layout", Data: data})
}

// fail 业务错误在页面内提示，内部错误记日志
func (h *Handler) fail(c *gin.Context, page, title string, err error, data gin.H) {
	code, message := apperr.Public(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("page", page).Error("页面渲染失败")
	}
	if data == nil {
		data = gin.H{}
	}
	data["Error"] = message
	h.render(c, status, page, title, data)
}
