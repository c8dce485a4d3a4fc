package importer

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `data,n1,n2,n3,n4,n5,e1,e2,jackpot,vencedor
2024-01-02,5,12,23,34,45,3,8,130000000,0
2024-01-05,7,14,21,28,35,2,11,17000000,1
`

func TestParseCSVSampleRows(t *testing.T) {
	batch, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(batch.Rows) != 2 || len(batch.Errors) != 0 {
		t.Fatalf("Expected 2 rows, got %d rows %v", len(batch.Rows), batch.Errors)
	}

	d := batch.Rows[0].Draw
	if d.DrawDate.Format("2006-01-02") != "2024-01-02" {
		t.Errorf("Unexpected date %v", d.DrawDate)
	}
	if !reflect.DeepEqual(d.Numbers(), []int{5, 12, 23, 34, 45}) || !reflect.DeepEqual(d.Stars(), []int{3, 8}) {
		t.Errorf("Unexpected pick %v %v", d.Numbers(), d.Stars())
	}
	if !d.Jackpot.Valid || d.Jackpot.Decimal.String() != "130000000" || d.HasWinner {
		t.Errorf("Unexpected jackpot/winner %v %v", d.Jackpot, d.HasWinner)
	}
	if !batch.Rows[1].Draw.HasWinner || batch.Rows[1].Row != 2 {
		t.Errorf("Expected row 2 to carry a winner flag, got %+v", batch.Rows[1])
	}
}

func TestParseCSVUnquotedThousands(t *testing.T) {
	// 未加引号的千分位逗号会多出列，按列数错误拒绝
	input := "data,n1,n2,n3,n4,n5,e1,e2,jackpot,vencedor\n2024-01-05,7,14,21,28,35,2,11,17,000,000,1\n"
	batch, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(batch.Rows) != 0 || len(batch.Errors) != 1 || batch.Errors[0].Row != 1 {
		t.Fatalf("Expected a field-count error on row 1, got %v", batch.Errors)
	}
}

func TestParseCSVQuotedJackpotAndAliases(t *testing.T) {
	input := "Date,N1,N2,N3,N4,N5,Star1,Star2,Jackpot,Winner\n" +
		"05/01/2024,35,7,21,14,28,11,2,\"€17,000,000.50\",sim\n" +
		"2024/01/09,1,2,3,4,5,1,2,,no\n"
	batch, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(batch.Errors) != 0 || len(batch.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d (errors %v)", len(batch.Rows), batch.Errors)
	}
	first := batch.Rows[0].Draw
	if first.DrawDate.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("Expected dd/mm/yyyy date, got %v", first.DrawDate)
	}
	if !reflect.DeepEqual(first.Numbers(), []int{7, 14, 21, 28, 35}) {
		t.Errorf("Expected sorted numbers, got %v", first.Numbers())
	}
	if first.Jackpot.Decimal.StringFixed(2) != "17000000.50" || !first.HasWinner {
		t.Errorf("Unexpected jackpot %v winner %v", first.Jackpot, first.HasWinner)
	}
	second := batch.Rows[1].Draw
	if second.Jackpot.Valid || second.HasWinner {
		t.Errorf("Expected null jackpot and no winner, got %v %v", second.Jackpot, second.HasWinner)
	}
}

func TestParseCSVRowErrors(t *testing.T) {
	input := "data,n1,n2,n3,n4,n5,e1,e2\n" +
		"2024-13-40,1,2,3,4,5,1,2\n" + // 日期非法
		"2024-01-02,1,2,3,4,51,1,2\n" + // 号码越界
		"2024-01-05,1,1,3,4,5,1,2\n" + // 号码重复
		"2024-01-09,1,2,3,4,5,1,13\n" + // 星号越界
		"2024-01-12,1,2,3,4,5,1\n" + // 列数不对
		"2024-01-16,a,2,3,4,5,1,2\n" + // 非数字
		"\n" +
		"2024-01-19,10,20,30,40,50,6,7\n"
	batch, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(batch.Rows) != 1 {
		t.Fatalf("Expected 1 valid row, got %d", len(batch.Rows))
	}
	if len(batch.Errors) != 6 {
		t.Fatalf("Expected 6 row errors, got %v", batch.Errors)
	}
	for i, e := range batch.Errors {
		if e.Row != i+1 || e.Reason == "" {
			t.Errorf("Unexpected error entry %+v", e)
		}
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("data,n1,n2,n3\n2024-01-02,1,2,3\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("Expected ErrMissingColumns, got %v", err)
	}
	if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("Expected ErrMissingColumns for empty input, got %v", err)
	}
}

func TestParseLine(t *testing.T) {
	d, err := ParseLine("2024-01-02 45 34 23 12 5 8 3")
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if d.NumbersString() != "05 - 12 - 23 - 34 - 45" || d.StarsString() != "03 - 08" {
		t.Errorf("Unexpected draw %s + %s", d.NumbersString(), d.StarsString())
	}
	for _, bad := range []string{
		"2024-01-02 1 2 3 4 5 1",
		"2024-01-02 1 2 3 4 5 1 2 3",
		"02/01/2024 1 2 3 4 5 1 2",
		"2024-01-02 1 2 3 4 5 1 1",
		"2024-01-02 0 2 3 4 5 1 2",
	} {
		if _, err := ParseLine(bad); err == nil {
			t.Errorf("ParseLine(%q): expected error", bad)
		}
	}
}

func TestParseLines(t *testing.T) {
	input := "# comment\n2024-01-02 1 2 3 4 5 1 2\n\nbad line\n2024-01-05 6 7 8 9 10 3 4\nexit\n2024-01-09 1 2 3 4 5 1 2\n"
	batch, err := ParseLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(batch.Rows) != 2 || len(batch.Errors) != 1 || batch.Errors[0].Row != 4 {
		t.Errorf("Expected 2 rows and an error on line 4, got %d rows %v", len(batch.Rows), batch.Errors)
	}
}

func TestParseHelpers(t *testing.T) {
	for _, s := range []string{"2024-01-02", "02/01/2024", "02-01-2024", "2024/01/02"} {
		d, err := ParseDate(s)
		if err != nil || d.Format("2006-01-02") != "2024-01-02" {
			t.Errorf("ParseDate(%q): got %v %v", s, d, err)
		}
	}
	for _, s := range []string{"1", "true", "SIM", "yes", "s", "Y"} {
		if !ParseBool(s) {
			t.Errorf("ParseBool(%q): expected true", s)
		}
	}
	for _, s := range []string{"0", "", "nao", "false"} {
		if ParseBool(s) {
			t.Errorf("ParseBool(%q): expected false", s)
		}
	}
	if _, err := ParseJackpot("abc"); err == nil {
		t.Error("Expected error for non-numeric jackpot")
	}
}
