package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// datePart 返回取日期年/月的 SQL 表达式，各数据库写法不同
func datePart(db *gorm.DB, part, column string) string {
	switch db.Dialector.Name() {
	case "mysql":
		return fmt.Sprintf("%s(%s)", part, column)
	case "sqlite":
		format := "%Y"
		if part == "MONTH" {
			format = "%m"
		}
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", format, column)
	default:
		return fmt.Sprintf("CAST(EXTRACT(%s FROM %s) AS INTEGER)", part, column)
	}
}

// normalizePage 分页参数兜底：page 从 1 开始，page_size 默认 20，最大 100
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
