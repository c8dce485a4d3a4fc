// importer 从 CSV 文件或标准输入导入开奖记录
//
//	importer -source csv -file draws.csv -refresh
//	importer -source manual        # 每行 YYYY-MM-DD n1 n2 n3 n4 n5 e1 e2，exit 结束
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"EuroAnalyzer/internal/app"
	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database"
	"EuroAnalyzer/internal/service"
)

func main() {
	source := flag.String("source", "csv", "数据来源：csv 或 manual")
	file := flag.String("file", "", "CSV 文件路径（source=csv 时必填）")
	refresh := flag.Bool("refresh", false, "导入后重算统计")
	flag.Parse()

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
	a := app.New(db, cfg, logger)

	var report *service.ImportReport
	ctx := context.Background()
	switch *source {
	case "csv":
		if *file == "" {
			logger.Fatal("source=csv 需要 -file")
		}
		f, err := os.Open(*file)
		if err != nil {
			logger.Fatalf("打开文件失败: %v", err)
		}
		defer f.Close()
		report, err = a.Imports.ImportCSV(ctx, f, *refresh)
		if err != nil {
			logger.Fatalf("导入失败: %v", err)
		}
	case "manual":
		fmt.Fprintln(os.Stderr, "输入开奖：YYYY-MM-DD n1 n2 n3 n4 n5 e1 e2，输入 exit 结束")
		report, err = a.Imports.ImportLines(ctx, os.Stdin, *refresh)
		if err != nil {
			logger.Fatalf("导入失败: %v", err)
		}
	default:
		logger.Fatalf("未知的数据来源: %s", *source)
	}

	fmt.Printf("imported: %d\nduplicates: %d\nerrors: %d\n", report.Imported, report.Duplicates, len(report.Errors))
	for _, e := range report.Errors {
		fmt.Printf("  row %d: %s\n", e.Row, e.Reason)
	}
	if report.Refreshed {
		fmt.Println("statistics refreshed")
	}
}
