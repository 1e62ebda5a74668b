// Package payroll converts individual payslip sheets into rows of the
// payroll aggregation CSV.
//
// Each sheet is one slip. Amount fields are found by label through
// grid.LabelIndex; the employee name, pay date, and remarks sit at fixed
// cells of the slip template.
package payroll

import (
	"regexp"
	"strings"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/wareki"
)

// Column names of the aggregation CSV.
const (
	ColStaffCode  = "スタッフコード"
	ColFamilyName = "姓"
	ColGivenName  = "名"
	ColPayDate    = "支給日"
	ColPayGroup   = "給与規定グループ名"
	ColRemarks    = "備考"
)

// Fixed cells of the slip template (0-based).
const (
	nameCellRow     = 6
	nameCellCol     = 1
	remarksCellRow  = 11
	remarksCellCol  = 0
	payDateCellRow  = 0
	payDateCellCol  = 24
	payDateFallback = 21
)

// Headers lists the output columns in order.
var Headers = []string{
	ColStaffCode,
	ColFamilyName,
	ColGivenName,
	ColPayDate,
	ColPayGroup,
	"基本給",
	"課税通勤手当",
	"非課税通勤手当",
	"残業手当",
	"深夜労働手当",
	"休日労働手当",
	"欠勤控除",
	"遅刻早退控除",
	"歩合給",
	"年末調整分",
	"賞与",
	"年末調整",
	"健康保険料",
	"介護保険料",
	"厚生年金保険料",
	"雇用保険料",
	"所得税",
	"住民税",
	"年末調整精算用",
	ColRemarks,
}

// Field maps an output column to the labels it may appear under on a slip.
type Field struct {
	Column  string
	Labels  []string
	Default string
}

// Fields are the label-located columns, in output order.
var Fields = []Field{
	{"基本給", []string{"基本給"}, "0"},
	{"課税通勤手当", []string{"課税通勤手当", "課税交通費"}, "0"},
	{"非課税通勤手当", []string{"非課税通勤手当", "非課税交通費"}, "0"},
	{"残業手当", []string{"残業手当", "時間外手当"}, "0"},
	{"深夜労働手当", []string{"深夜労働手当", "深夜手当"}, "0"},
	{"休日労働手当", []string{"休日労働手当", "休日手当"}, "0"},
	{"欠勤控除", []string{"欠勤控除", "欠勤"}, "0"},
	{"遅刻早退控除", []string{"遅刻早退控除", "遅刻早退"}, "0"},
	{"歩合給", []string{"歩合給", "処遇改善加算"}, "0"},
	{"年末調整分", []string{"年末調整分", "年末調整"}, "0"},
	{"賞与", []string{"賞与", "ボーナス"}, "0"},
	{"年末調整", []string{"年末調整", "年末調整額"}, ""},
	{"健康保険料", []string{"健康保険料", "健康保険"}, "0"},
	{"介護保険料", []string{"介護保険料", "介護保険"}, "0"},
	{"厚生年金保険料", []string{"厚生年金保険料", "厚生年金"}, "0"},
	{"雇用保険料", []string{"雇用保険料", "雇用保険"}, "0"},
	{"所得税", []string{"所得税", "源泉所得税"}, "0"},
	{"住民税", []string{"住民税", "市町村民税"}, "0"},
	{"年末調整精算用", []string{"年末調整精算用", "年末調整精算"}, "0"},
}

// Row is one converted slip keyed by column name.
type Row map[string]string

// Values returns the row in Headers order.
func (r Row) Values() []string {
	out := make([]string, len(Headers))
	for i, h := range Headers {
		out[i] = r[h]
	}
	return out
}

var (
	honorific     = regexp.MustCompile(`[\s　]*様$`)
	nameSeparator = regexp.MustCompile(`[\s　]+`)
	slipTitle     = regexp.MustCompile(`　給与明細書$`)
)

// SplitName removes a trailing 様 and splits a full name into family and
// given name on the first run of ASCII or ideographic spaces. Further
// parts are joined into the given name with single spaces.
func SplitName(full string) (family, given string) {
	full = strings.TrimSpace(honorific.ReplaceAllString(strings.TrimSpace(full), ""))
	if full == "" {
		return "", ""
	}
	parts := nameSeparator.Split(full, -1)
	return parts[0], strings.Join(parts[1:], " ")
}

// ParseSheet converts one payslip grid. Missing labels fall back to each
// field's default; it never fails.
func ParseSheet(g grid.Grid) Row {
	idx := grid.BuildLabelIndex(g)

	family, given := SplitName(g.Cell(nameCellRow, nameCellCol))

	payDate := g.Cell(payDateCellRow, payDateCellCol)
	if payDate == "" {
		payDate = g.Cell(payDateCellRow, payDateFallback)
	}

	row := Row{
		ColStaffCode:  "",
		ColFamilyName: family,
		ColGivenName:  given,
		ColPayDate:    wareki.Convert(payDate, wareki.FormatISO),
		ColPayGroup:   "",
		ColRemarks:    strings.TrimSpace(slipTitle.ReplaceAllString(g.Cell(remarksCellRow, remarksCellCol), "")),
	}
	for _, f := range Fields {
		row[f.Column] = idx.GetBelowByLabels(g, f.Labels, grid.WithDefault(f.Default))
	}
	return row
}
