package api

import (
	"net/http"
	"strconv"
	"time"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError 业务错误按错误码返回，内部错误只记日志
func respondError(c *gin.Context, logger *logrus.Logger, action string, err error) {
	code, message := apperr.Public(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.FullPath()).Error(action + " failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// queryInt 空值返回 def，非整数返回错误
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidPayload("%s must be an integer", key)
	}
	return v, nil
}

// queryDate YYYY-MM-DD，空值返回 nil
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperr.InvalidPayload("%s must be a date (YYYY-MM-DD)", key)
	}
	return &t, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.InvalidPayload("%s must be true or false", key)
	}
	return &v, nil
}

func paramID(c *gin.Context, key string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.InvalidPayload("%s must be a positive integer", key)
	}
	return id, nil
}

func paramInt(c *gin.Context, key string) (int, error) {
	v, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, apperr.InvalidPayload("%s must be an integer", key)
	}
	return v, nil
}

// bindJSON 解析请求体，失败时返回 invalid_payload
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.InvalidPayload("invalid JSON body: %v", err)
	}
	return nil
}

// drawView 对外的开奖结构，号码以数组给出
type drawView struct {
	model.Draw
	DrawDate      string `json:"draw_date"`
	Numbers       []int  `json:"numbers"`
	Stars         []int  `json:"stars"`
	NumbersString string `json:"numbers_string"`
	StarsString   string `json:"stars_string"`
	Sum           int    `json:"sum"`
}

func viewDraw(d model.Draw) drawView {
	return drawView{
		Draw:          d,
		DrawDate:      d.DrawDate.Format("2006-01-02"),
		Numbers:       d.Numbers(),
		Stars:         d.Stars(),
		NumbersString: d.NumbersString(),
		StarsString:   d.StarsString(),
		Sum:           d.Sum(),
	}
}

func viewDraws(draws []*model.Draw) []drawView {
	out := make([]drawView, 0, len(draws))
	for _, d := range draws {
		out = append(out, viewDraw(*d))
	}
	return out
}

// betView 生成投注对外结构
type betView struct {
	*model.GeneratedBet
	Numbers []int `json:"numbers"`
	Stars   []int `json:"stars"`
}

func viewBets(bets []*model.GeneratedBet) []betView {
	out := make([]betView, 0, len(bets))
	for _, b := range bets {
		out = append(out, betView{GeneratedBet: b, Numbers: b.Numbers(), Stars: b.Stars()})
	}
	return out
}

type multipleView struct {
	*model.MultipleBet
	Numbers []int `json:"numbers"`
	Stars   []int `json:"stars"`
}

func viewMultiple(b *model.MultipleBet) multipleView {
	return multipleView{MultipleBet: b, Numbers: b.Numbers(), Stars: b.Stars()}
}
