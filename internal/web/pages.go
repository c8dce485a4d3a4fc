package web

import (
	"net/http"
	"strconv"
	"strings"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/repository"
	"EuroAnalyzer/internal/service"

	"github.com/gin-gonic/gin"
)

const historyPageSize = 20

// Dashboard 首页：最新一期、摘要和最近开奖
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{}
	latest, err := h.app.Draws.Latest(ctx)
	if err != nil && !apperr.Is(err, apperr.CodeNoDraws) {
		h.fail(c, "dashboard", "EuroMillions", err, nil)
		return
	}
	data["Latest"] = latest
	summary, err := h.app.Statistics.Summary(ctx)
	if err != nil {
		h.fail(c, "dashboard", "EuroMillions", err, nil)
		return
	}
	data["Summary"] = summary
	recent, err := h.app.Draws.Recent(ctx, 10)
	if err != nil {
		h.fail(c, "dashboard", "EuroMillions", err, nil)
		return
	}
	data["Recent"] = recent
	h.render(c, http.StatusOK, "dashboard", "EuroMillions", data)
}

// Draws 历史开奖，支持 year/number 过滤
func (h *Handler) Draws(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 1)
	filter := repository.DrawFilter{
		Year:   atoiDefault(c.Query("year"), 0),
		Number: atoiDefault(c.Query("number"), 0),
		Star:   atoiDefault(c.Query("star"), 0),
	}
	result, err := h.app.Draws.List(c.Request.Context(), filter, page, historyPageSize)
	if err != nil {
		h.fail(c, "draws", "History", err, nil)
		return
	}
	h.render(c, http.StatusOK, "draws", "History", gin.H{
		"Result":  result,
		"Draws":   result.Items,
		"Filter":  filter,
		"HasPrev": result.Page > 1,
		"HasNext": int64(result.Page*result.PageSize) < result.Total,
	})
}

// Draw 单期详情
func (h *Handler) Draw(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, "draw", "Draw", apperr.NotFound("draw"), nil)
		return
	}
	draw, err := h.app.Draws.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "draw", "Draw", err, nil)
		return
	}
	even, odd := draw.EvenOdd()
	low, high := draw.LowHigh()
	h.render(c, http.StatusOK, "draw", "Draw "+draw.DrawDate.Format("2006-01-02"), gin.H{
		"Draw": draw, "Even": even, "Odd": odd, "Low": low, "High": high,
	})
}

// Number 单个主号详情
func (h *Handler) Number(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("value"))
	if err != nil {
		h.fail(c, "number", "Number", apperr.InvalidPayload("number must be an integer"), nil)
		return
	}
	detail, err := h.app.Analysis.NumberDetail(c.Request.Context(), n)
	if err != nil {
		h.fail(c, "number", "Number", err, nil)
		return
	}
	h.render(c, http.StatusOK, "number", "Number "+strconv.Itoa(n), gin.H{"Number": n, "Detail": detail})
}

// Statistics 主号与星号统计表
func (h *Handler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()
	q := service.StatQuery{Order: c.DefaultQuery("order", "-frequency")}
	numbers, err := h.app.Statistics.Numbers(ctx, q)
	if err != nil {
		h.fail(c, "statistics", "Statistics", err, nil)
		return
	}
	stars, err := h.app.Statistics.Stars(ctx, q)
	if err != nil {
		h.fail(c, "statistics", "Statistics", err, nil)
		return
	}
	h.render(c, http.StatusOK, "statistics", "Statistics", gin.H{"Numbers": numbers, "Stars": stars, "Order": q.Order})
}

// Patterns 形态分析
func (h *Handler) Patterns(c *gin.Context) {
	report, err := h.app.Analysis.Patterns(c.Request.Context())
	if err != nil {
		h.fail(c, "patterns", "Patterns", err, nil)
		return
	}
	h.render(c, http.StatusOK, "patterns", "Patterns", gin.H{"Report": report})
}

// Charts 频次柱状图、星期和奖池
func (h *Handler) Charts(c *gin.Context) {
	ctx := c.Request.Context()
	numbers, err := h.app.Analysis.FrequencyChart(ctx, false)
	if err != nil {
		h.fail(c, "charts", "Charts", err, nil)
		return
	}
	stars, err := h.app.Analysis.FrequencyChart(ctx, true)
	if err != nil {
		h.fail(c, "charts", "Charts", err, nil)
		return
	}
	weekdays, err := h.app.Analysis.Weekday(ctx)
	if err != nil {
		h.fail(c, "charts", "Charts", err, nil)
		return
	}
	h.render(c, http.StatusOK, "charts", "Charts", gin.H{
		"Numbers":    bars(numbers),
		"Stars":      bars(stars),
		"Weekdays":   weekdays,
		"NumbersMax": maxOf(numbers.Frequencies),
		"StarsMax":   maxOf(stars.Frequencies),
	})
}

// Prediction 预测一注并列出得分前 10
func (h *Handler) Prediction(c *gin.Context) {
	ctx := c.Request.Context()
	strategy := c.DefaultQuery("strategy", string(lottery.StrategyBalanced))
	data := gin.H{"Strategies": lottery.Strategies, "Strategy": strategy}
	prediction, err := h.app.Predictions.Predict(ctx, strategy)
	if err != nil {
		h.fail(c, "prediction", "Prediction", err, data)
		return
	}
	ranking, err := h.app.Predictions.Ranking(ctx)
	if err != nil {
		h.fail(c, "prediction", "Prediction", err, data)
		return
	}
	if len(ranking.Numbers) > 10 {
		ranking.Numbers = ranking.Numbers[:10]
	}
	data["Prediction"] = prediction
	data["Ranking"] = ranking
	h.render(c, http.StatusOK, "prediction", "Prediction", data)
}

// GeneratorForm 生成器表单
func (h *Handler) GeneratorForm(c *gin.Context) {
	h.render(c, http.StatusOK, "generator", "Generator", gin.H{
		"Strategies": lottery.Strategies, "Strategy": string(lottery.StrategyBalanced), "Quantity": 1,
	})
}

// Generate 表单提交生成投注
func (h *Handler) Generate(c *gin.Context) {
	strategy := c.PostForm("strategy")
	quantity := atoiDefault(c.PostForm("quantity"), 1)
	data := gin.H{"Strategies": lottery.Strategies, "Strategy": strategy, "Quantity": quantity}
	bets, err := h.app.Bets.Generate(c.Request.Context(), service.GenerateRequest{Strategy: strategy, Quantity: quantity})
	if err != nil {
		h.fail(c, "generator", "Generator", err, data)
		return
	}
	data["Bets"] = bets
	h.render(c, http.StatusOK, "generator", "Generator", data)
}

// VerifierForm 核对表单
func (h *Handler) VerifierForm(c *gin.Context) {
	h.render(c, http.StatusOK, "verifier", "Verifier", gin.H{"Tiers": lottery.PrizeTiers()})
}

// Verify 表单提交核对一注，draw_id 为空对最新一期
func (h *Handler) Verify(c *gin.Context) {
	data := gin.H{
		"Tiers":       lottery.PrizeTiers(),
		"NumbersText": c.PostForm("numbers"),
		"StarsText":   c.PostForm("stars"),
		"DrawIDText":  c.PostForm("draw_id"),
	}
	numbers, err := parseInts(c.PostForm("numbers"))
	if err != nil {
		h.fail(c, "verifier", "Verifier", err, data)
		return
	}
	stars, err := parseInts(c.PostForm("stars"))
	if err != nil {
		h.fail(c, "verifier", "Verifier", err, data)
		return
	}
	var drawID *uint64
	if raw := strings.TrimSpace(c.PostForm("draw_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.fail(c, "verifier", "Verifier", apperr.InvalidPayload("draw id must be a positive integer"), data)
			return
		}
		drawID = &id
	}
	v, err := h.app.Bets.Verify(c.Request.Context(), numbers, stars, drawID)
	if err != nil {
		h.fail(c, "verifier", "Verifier", err, data)
		return
	}
	data["Verification"] = v
	h.render(c, http.StatusOK, "verifier", "Verifier", data)
}

type barRow struct {
	Label      string
	Frequency  int
	Percentage float64
}

func bars(fs *lottery.FrequencySeries) []barRow {
	rows := make([]barRow, len(fs.Labels))
	for i := range fs.Labels {
		rows[i] = barRow{Label: fs.Labels[i], Frequency: fs.Frequencies[i], Percentage: fs.Percentages[i]}
	}
	return rows
}

func maxOf(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func atoiDefault(raw string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return v
	}
	return def
}

// parseInts 接受空格、逗号或短横线分隔
func parseInts(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == ';'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, apperr.InvalidPayload("%q is not a number", f)
		}
		out = append(out, v)
	}
	return out, nil
}

