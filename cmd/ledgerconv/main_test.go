package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/ledgerconv-go/internal/config"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var fixedNow = time.Date(2024, 4, 25, 9, 0, 0, 0, time.UTC)

// run executes the CLI with a fixed clock and the given classifier answer.
func run(t *testing.T, answer string, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{
		now: func() time.Time { return fixedNow },
		classifier: func(config.Config) classify.Classifier {
			return classify.Func(func(ctx context.Context, req classify.Request) (string, error) {
				return answer, nil
			})
		},
	}
	cmd := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cmd.SetArgs(append([]string{"--env-file", envFile}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestWarekiCommand(t *testing.T) {
	out, err := run(t, "", "", "wareki", "令和6年4月1日", "令6年1月1日", "未定")
	if err != nil {
		t.Fatalf("wareki failed: %v", err)
	}
	if out != "20240401\n20240101\n未定\n" {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = run(t, "", "令和5年10月31日\n支給日：2023/10/31\n", "wareki", "--iso")
	if err != nil {
		t.Fatalf("wareki --iso failed: %v", err)
	}
	if out != "2023-10-31\n2023/10/31\n" {
		t.Errorf("unexpected stdin output: %q", out)
	}

	if _, err := run(t, "", "", "wareki", "--format", "julian", "x"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func writePayslips(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "Y1", "支給日：令和6年4月25日")
	f.SetCellValue("Sheet1", "B7", "山田　太郎　様")
	f.SetCellValue("Sheet1", "A9", "基本給")
	f.SetCellValue("Sheet1", "A10", 250000)
	f.SetCellValue("Sheet1", "A15", "end")
	if _, err := f.NewSheet("表紙"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("表紙", "A1", "4月分")

	path := filepath.Join(t.TempDir(), "slips.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestPayrollCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "", "", "payroll", writePayslips(t), "--output-dir", dir); err != nil {
		t.Fatalf("payroll failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "給与集計データ_2024-04-25.csv"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], `"","山田","太郎","2024-04-25","","250000",`) {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestPayrollCommandNoSlips(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "empty")
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err := run(t, "", "", "payroll", path)
	if !errors.Is(err, ledgerconv.ErrNoData) {
		t.Errorf("err = %v, expected ErrNoData", err)
	}

	_, err = run(t, "", "", "payroll", filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ledgerconv.ErrFileNotFound) {
		t.Errorf("err = %v, expected ErrFileNotFound", err)
	}
}

func TestAssetCommand(t *testing.T) {
	ledger := strings.Join([]string{
		"[ヘッダー],固定資産台帳",
		"会社コード,0001",
		"顧問先,",
		"[明細行],,,器具備品,,,,,,複合機,1台,台,令和5年4月1日,令和5年4月1日,,,,,,定額法,5年,0.200,100%,\"300,000\",0,\"300,000\"",
	}, "\n")
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(ledger), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(t.TempDir(), "asset.csv")

	if _, err := run(t, "70", "", "asset", path, "-o", outPath); err != nil {
		t.Fatalf("asset failed: %v", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		t.Fatalf("output is not Shift_JIS: %v", err)
	}
	lines := strings.Split(string(decoded), "\r\n")
	if lines[2] != "顧問先名称=株式会社二垣経営研究所" {
		t.Errorf("default client name not applied: %q", lines[2])
	}
	if !strings.HasPrefix(lines[7], `"1","1","70","器具備品","定額法",`) {
		t.Errorf("unexpected row: %.60s", lines[7])
	}
	if !strings.Contains(lines[7], `"20230401","20230401","1","台","5"`) {
		t.Errorf("dates or quantity missing: %.200s", lines[7])
	}

	if _, err := run(t, "70", "", "asset", path, "-o", outPath, "--no-classify", "--client-name", "山田商店"); err != nil {
		t.Fatalf("asset --no-classify failed: %v", err)
	}
	raw, _ = os.ReadFile(outPath)
	decoded, _, _ = transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	lines = strings.Split(string(decoded), "\r\n")
	if lines[2] != "顧問先名称=山田商店" || lines[3] != "法人個人区分=個人" {
		t.Errorf("unexpected meta: %q", lines[2:4])
	}
	if !strings.HasPrefix(lines[7], `"1","1","","器具備品",`) {
		t.Errorf("type code should be blank: %.60s", lines[7])
	}
}

func TestAssetCommandUnencodableName(t *testing.T) {
	rows := []string{"[ヘッダー],固定資産台帳", "会社コード,0001", "顧問先,"}
	// Enough rows to push earlier output past the writer's buffer.
	for i := 0; i < 300; i++ {
		rows = append(rows, "[明細行],,,器具備品,,,,,,複合機,1台,台,令和5年4月1日,令和5年4月1日,,,,,,定額法,5年,0.200,100%,300000,0,300000")
	}
	rows = append(rows, "[明細行],,,器具備品,,,,,,𠮷野家の看板,1台,台,令和5年4月1日,令和5年4月1日,,,,,,定額法,5年,0.200,100%,300000,0,300000")
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	if _, err := run(t, "70", "", "asset", path, "--output-dir", dir, "--no-classify"); err == nil {
		t.Fatal("expected an encoding error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial output left behind: %s", entries[0].Name())
	}
}

func TestReceiptCommand(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "r1.jpg")
	if err := os.WriteFile(img, []byte{0xff, 0xd8, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	saved := filepath.Join(dir, "expenses.json")
	answer := `[{"date": "2024/04/20", "payee": "カフェ", "amount": 880, "accountTitle": "会議費", "summary": "打合せ"}]`

	out, err := run(t, answer, "", "receipt", img, "--save-json", saved, "--add-blank", "1")
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}
	if lines[1] != `"2024/04/25","2024/04/20","カフェ",880,"10%","課税仕入","会議費","","","打合せ"` {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if lines[2] != `"2024/04/25","2024/04/25","",0,"10%","課税仕入","消耗品費","","",""` {
		t.Errorf("unexpected blank row: %s", lines[2])
	}

	out, err = run(t, "", "", "receipt", "--from-json", saved, "--tsv")
	if err != nil {
		t.Fatalf("receipt --from-json failed: %v", err)
	}
	if !strings.Contains(out, "2024/04/20\tカフェ\t880\t会議費\t10%\t課税仕入\t打合せ") {
		t.Errorf("unexpected TSV: %q", out)
	}

	if _, err := run(t, "", "", "receipt"); err == nil {
		t.Error("expected error without input")
	}
}

func TestGridCommand(t *testing.T) {
	path := writePayslips(t)
	sheetsDir := t.TempDir()

	out, err := run(t, "", "", "grid", path, "--raw", "--labels")
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}
	var wb models.WorkbookData
	if err := json.Unmarshal([]byte(out), &wb); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if wb.BookName != "slips.xlsx" || len(wb.SheetOrder) != 2 {
		t.Errorf("unexpected dump: %s %v", wb.BookName, wb.SheetOrder)
	}
	if _, ok := wb.Sheets["Sheet1"].Labels["基本給"]; !ok {
		t.Error("label index missing 基本給")
	}

	if _, err := run(t, "", "", "grid", path, "--sheets-dir", sheetsDir); err != nil {
		t.Fatalf("grid --sheets-dir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sheetsDir, "表紙.json")); err != nil {
		t.Errorf("sheet file missing: %v", err)
	}
}
