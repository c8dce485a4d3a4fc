// refresh 执行一次完整刷新（拉取开奖源、重算统计、评估提醒）并打印热冷号
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"EuroAnalyzer/internal/app"
	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	logger := app.NewLogger(cfg.Logging)

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("连接数据库失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("数据库表结构迁移失败: %v", err)
	}

	res, err := app.New(db, cfg, logger).Scheduler.RunOnce(context.Background())
	if err != nil {
		logger.Fatalf("刷新失败: %v", err)
	}

	s := res.Summary
	if res.Feed != nil {
		fmt.Printf("feed: %d imported, %d duplicates\n", res.Feed.Imported, res.Feed.Duplicates)
	}
	fmt.Printf("draws:           %d\n", s.TotalDraws)
	fmt.Printf("hot numbers:     %s\n", list(s.HotNumbers))
	fmt.Printf("cold numbers:    %s\n", list(s.ColdNumbers))
	fmt.Printf("overdue numbers: %s\n", list(s.OverdueNumbers))
	fmt.Printf("hot stars:       %s\n", list(s.HotStars))
	fmt.Printf("cold stars:      %s\n", list(s.ColdStars))
	fmt.Printf("alerts fired:    %d (%s)\n", res.Fired, res.Elapsed)
}

func list(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%02d", v)
	}
	return strings.Join(parts, " ")
}
