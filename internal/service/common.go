package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"EuroAnalyzer/internal/apperr"

	"gorm.io/gorm"
)

// RandSource 生成器随机源，按服务实例持有并加锁
type RandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandSource seed 为 0 时按当前时间取种
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{rnd: rand.New(rand.NewSource(seed))}
}

// With 持锁执行
func (s *RandSource) With(fn func(rnd *rand.Rand) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.rnd)
}

// notFound 记录不存在映射为 not_found，其余错误原样包装
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what)
	}
	return err
}

// Page 分页结果
type Page struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func pageBounds(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
