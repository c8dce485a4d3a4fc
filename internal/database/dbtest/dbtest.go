// Package dbtest 为仓储、服务和接口测试提供已迁移的内存 SQLite 库
package dbtest

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Logger 丢弃输出的 logrus 实例
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Open 每个测试一个独立的内存库
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory", name)}
	db, err := database.Open(cfg, Logger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
