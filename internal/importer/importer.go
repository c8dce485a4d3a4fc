// Package importer parses draw results from CSV files and from the
// one-line manual format. It only parses and validates; persistence and
// duplicate handling live in the service layer.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

// RowError 单行错误，不中断整批
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParsedRow 通过校验的一行
type ParsedRow struct {
	Row  int
	Draw model.Draw
}

// Batch 一次解析的结果
type Batch struct {
	Rows   []ParsedRow
	Errors []RowError
}

func (b *Batch) fail(row int, format string, args ...interface{}) {
	b.Errors = append(b.Errors, RowError{Row: row, Reason: fmt.Sprintf(format, args...)})
}

// 列名别名（小写比较）
var (
	dateColumns    = []string{"data", "date"}
	contestColumns = []string{"concurso", "contest", "draw"}
	jackpotColumns = []string{"jackpot", "premio", "prize"}
	winnerColumns  = []string{"vencedor", "winner"}
)

func numberColumns(i int) []string {
	return []string{fmt.Sprintf("n%d", i), fmt.Sprintf("numero_%d", i), fmt.Sprintf("numero%d", i), fmt.Sprintf("ball %d", i)}
}

func starColumns(i int) []string {
	return []string{fmt.Sprintf("e%d", i), fmt.Sprintf("s%d", i), fmt.Sprintf("estrela_%d", i), fmt.Sprintf("star%d", i), fmt.Sprintf("lucky star %d", i)}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006/01/02"}

// ErrMissingColumns 表头缺少必需列
var ErrMissingColumns = errors.New("csv header is missing required columns")

type columnMap struct {
	date, contest, jackpot, winner int
	numbers                        [lottery.NumbersPerDraw]int
	stars                          [lottery.StarsPerDraw]int
	width                          int
}

func findColumn(header map[string]int, names []string) int {
	for _, n := range names {
		if idx, ok := header[n]; ok {
			return idx
		}
	}
	return -1
}

func mapHeader(header []string) (*columnMap, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	cm := &columnMap{
		date:    findColumn(index, dateColumns),
		contest: findColumn(index, contestColumns),
		jackpot: findColumn(index, jackpotColumns),
		winner:  findColumn(index, winnerColumns),
		width:   len(header),
	}
	var missing []string
	if cm.date < 0 {
		missing = append(missing, "data")
	}
	for i := range cm.numbers {
		cm.numbers[i] = findColumn(index, numberColumns(i+1))
		if cm.numbers[i] < 0 {
			missing = append(missing, fmt.Sprintf("n%d", i+1))
		}
	}
	for i := range cm.stars {
		cm.stars[i] = findColumn(index, starColumns(i+1))
		if cm.stars[i] < 0 {
			missing = append(missing, fmt.Sprintf("e%d", i+1))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cm, nil
}

// ParseCSV 解析 CSV，表头为 data,n1..n5,e1,e2[,jackpot,vencedor]；行号从表头后的第 1 行算起
func ParseCSV(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cm, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				batch.fail(row, "malformed csv: %v", perr.Err)
				continue
			}
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if isBlank(record) {
			continue
		}
		if len(record) != cm.width {
			batch.fail(row, "expected %d fields, got %d", cm.width, len(record))
			continue
		}
		d, err := cm.parseRecord(record)
		if err != nil {
			batch.fail(row, "%v", err)
			continue
		}
		batch.Rows = append(batch.Rows, ParsedRow{Row: row, Draw: d})
	}
	return batch, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func (cm *columnMap) parseRecord(record []string) (model.Draw, error) {
	date, err := ParseDate(record[cm.date])
	if err != nil {
		return model.Draw{}, err
	}
	numbers := make([]int, 0, lottery.NumbersPerDraw)
	for _, idx := range cm.numbers {
		n, err := parseInt(record[idx], "number")
		if err != nil {
			return model.Draw{}, err
		}
		numbers = append(numbers, n)
	}
	stars := make([]int, 0, lottery.StarsPerDraw)
	for _, idx := range cm.stars {
		s, err := parseInt(record[idx], "star")
		if err != nil {
			return model.Draw{}, err
		}
		stars = append(stars, s)
	}
	if err := lottery.ValidatePick(numbers, stars); err != nil {
		return model.Draw{}, err
	}

	d := model.NewDraw(date, numbers, stars)
	if cm.jackpot >= 0 {
		jp, err := ParseJackpot(record[cm.jackpot])
		if err != nil {
			return model.Draw{}, err
		}
		d.Jackpot = jp
	}
	if cm.winner >= 0 {
		d.HasWinner = ParseBool(record[cm.winner])
	}
	if cm.contest >= 0 {
		if c := strings.TrimSpace(record[cm.contest]); c != "" {
			d.Contest = &c
		}
	}
	return d, nil
}

func parseInt(s, label string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", label, s)
	}
	return v, nil
}

// ParseDate 支持 2006-01-02、02/01/2006、02-01-2006、2006/01/02
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseJackpot 去掉 € 和千分位逗号，空值为 NULL
func ParseJackpot(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(strings.NewReplacer("€", "", ",", "", " ", "").Replace(s))
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid jackpot %q", s)
	}
	if v.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("negative jackpot %q", s)
	}
	return decimal.NewNullDecimal(v.Round(2)), nil
}

// ParseBool 1/true/sim/yes/s/y 为真
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "sim", "yes", "s", "y":
		return true
	}
	return false
}

// ParseLine 手工录入格式：YYYY-MM-DD n1 n2 n3 n4 n5 e1 e2
func ParseLine(line string) (model.Draw, error) {
	fields := strings.Fields(line)
	if len(fields) != 1+lottery.NumbersPerDraw+lottery.StarsPerDraw {
		return model.Draw{}, fmt.Errorf("expected 8 fields (YYYY-MM-DD n1 n2 n3 n4 n5 e1 e2), got %d", len(fields))
	}
	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return model.Draw{}, fmt.Errorf("invalid date %q", fields[0])
	}
	values := make([]int, 0, 7)
	for i, f := range fields[1:] {
		label := "number"
		if i >= lottery.NumbersPerDraw {
			label = "star"
		}
		v, err := parseInt(f, label)
		if err != nil {
			return model.Draw{}, err
		}
		values = append(values, v)
	}
	numbers, stars := values[:lottery.NumbersPerDraw], values[lottery.NumbersPerDraw:]
	if err := lottery.ValidatePick(numbers, stars); err != nil {
		return model.Draw{}, err
	}
	return model.NewDraw(date, numbers, stars), nil
}

// ParseLines 逐行解析手工格式，跳过空行和 # 注释，遇到 exit 停止
func ParseLines(r io.Reader) (*Batch, error) {
	batch := &Batch{}
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.EqualFold(line, "exit") {
			break
		}
		d, err := ParseLine(line)
		if err != nil {
			batch.fail(row, "%v", err)
			continue
		}
		batch.Rows = append(batch.Rows, ParsedRow{Row: row, Draw: d})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return batch, nil
}
