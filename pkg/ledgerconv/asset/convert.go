package asset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/output"
)

const typeCodePrompt = `
あなたは資産管理の専門家です。与えられた資産種類名を分析し、以下のマッピングに基づいて適切な資産種類コードを返してください。

マッピング:
- 00：建物
- 10：建物附属設備
- 20：構築物
- 30：船舶
- 40：航空機
- 50：車両運搬具
- 60：工具
- 70：器具備品
- 80：機械装置
- 90：生物
- A0：無形固定資産
- B0：フランチャイズ費
- C0：土地
- D0：非償却資産
- E0：創立費
- F0：一括償却資産
- ##：一括償却

資産種類名: "%NAME%"

上記の資産種類名に最も適切な資産種類コードを返してください。コードのみを返してください（例: "00"、"10"、"A0"など）。該当するコードがない場合は空文字列を返してください。
`

// TypeCodeTemperature keeps type code answers close to deterministic.
const TypeCodeTemperature = 0.1

var (
	codeInText = regexp.MustCompile(`(?:^|\s)([0-9A-F]{2}|##)(?:\s|$)`)
	codeOnly   = regexp.MustCompile(`^(?:[0-9A-F]{2}|##)$`)
)

// ParseTypeCode pulls an asset type code ("70", "A0", "##") out of a
// model answer. Anything else yields "".
func ParseTypeCode(text string) string {
	text = strings.TrimSpace(text)
	if m := codeInText.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(classify.StripCodeFence(text), "json", ""))
	if codeOnly.MatchString(cleaned) {
		return cleaned
	}
	return ""
}

// ClassifyType asks c for the asset type code of a category name.
func ClassifyType(ctx context.Context, c classify.Classifier, category string) (string, error) {
	text, err := c.Classify(ctx, classify.Request{
		Prompt:      strings.Replace(typeCodePrompt, "%NAME%", category, 1),
		Temperature: TypeCodeTemperature,
	})
	if err != nil {
		return "", err
	}
	return ParseTypeCode(text), nil
}

// Convert builds one output row per detail line. Type codes come from c;
// a failed or unavailable classifier leaves the code blank. Only context
// cancellation aborts the conversion.
func Convert(ctx context.Context, l *Ledger, c classify.Classifier, log *slog.Logger) ([]Row, error) {
	if c == nil {
		c = classify.Nop{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rows := make([]Row, 0, len(l.Details))
	classifierDown := false
	for i, d := range l.Details {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var code string
		if category := d.Category(); category != "" && !classifierDown {
			var err error
			code, err = ClassifyType(ctx, c, category)
			switch {
			case errors.Is(err, classify.ErrUnavailable):
				classifierDown = true
				log.Warn("asset type classifier unavailable, type codes left blank")
			case err != nil:
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				log.Warn("classify asset type", "line", d.Line, "category", category, "error", err)
			default:
				log.Debug("classified asset type", "line", d.Line, "category", category, "code", code)
			}
		}

		rows = append(rows, NewRow(d, i+1, code))
	}
	return rows, nil
}

// DefaultVersion is the format version line the import expects.
const DefaultVersion = "1.9.0.10(FILEVERSION=1.13)"

// Meta is the header block written before the column names.
type Meta struct {
	Version    string
	ClientCode string
	ClientName string
	FiscalFrom string
	FiscalTo   string
}

// IsCorporation reports whether a client name denotes a company.
func IsCorporation(name string) bool {
	for _, kind := range []string{"株式会社", "有限会社", "合同会社"} {
		if strings.Contains(name, kind) {
			return true
		}
	}
	return false
}

// Lines renders the meta block.
func (m Meta) Lines() []string {
	version := m.Version
	if version == "" {
		version = DefaultVersion
	}
	kind := "個人"
	if IsCorporation(m.ClientName) {
		kind = "法人"
	}
	return []string{
		"バージョン=" + version,
		"顧問先コード=" + m.ClientCode,
		"顧問先名称=" + m.ClientName,
		"法人個人区分=" + kind,
		"事業年度開始日=" + m.FiscalFrom,
		"事業年度終了日=" + m.FiscalTo,
	}
}

// WriteCSV writes the meta block, the ";"-prefixed header line, and the
// rows as Shift_JIS with CRLF separators. Every field is quoted.
func WriteCSV(w io.Writer, meta Meta, rows []Row) error {
	cw := output.NewCSVWriter(w, output.ShiftJIS, output.CRLF)
	for _, line := range meta.Lines() {
		if err := cw.WriteRaw(line); err != nil {
			return err
		}
	}
	if err := cw.WriteRaw(";" + strings.Join(Headers, ",")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.WriteQuoted(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// FileName is the download name used by the asset tool.
func FileName(t time.Time) string {
	return "二垣形式_資産データ_" + t.Format("20060102") + ".csv"
}
