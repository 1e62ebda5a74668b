package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
)

const extractPrompt = `
あなたは経理担当のアシスタントです。アップロードされた複数のレシート（画像またはPDF）を解析し、会計ソフト取り込み用のデータを抽出・推測してください。

各レシートについて以下の項目を出力してください:
1. date: 取引日 (YYYY/MM/DD形式)
2. payee: 支払先 (店舗名)
3. amount: 金額 (数値のみ)
4. taxRate: 消費税率 ("10%" または "8%" または "0%")。品目から推測してください。
5. taxType: 消費税区分 ("課税仕入" または "非課税" または "不課税")。
6. accountTitle: 勘定科目 (例: 旅費交通費, 会議費, 消耗品費, 交際費, 新聞図書費, 通信費 など内容から適切に推測)。
7. summary: 摘要 (具体的な品目や内容のメモ)。

結果は以下のJSONフォーマットの配列のみを返してください。マークダウンや追加のテキストは不要です。

[
  {
    "date": "2023/10/31",
    "payee": "セブンイレブン",
    "amount": 1100,
    "taxRate": "10%",
    "taxType": "課税仕入",
    "accountTitle": "消耗品費",
    "summary": "ボールペン、ノート"
  }
]
`

// ExtractTemperature is the sampling temperature for receipt reading.
const ExtractTemperature = 0.4

// ErrNoImages reports an Extract call without input.
var ErrNoImages = errors.New("no receipt images given")

// suggestion is one receipt as the model returns it.
type suggestion struct {
	Date         string          `json:"date"`
	Payee        string          `json:"payee"`
	Amount       json.RawMessage `json:"amount"`
	TaxRate      string          `json:"taxRate"`
	TaxType      string          `json:"taxType"`
	AccountTitle string          `json:"accountTitle"`
	Summary      string          `json:"summary"`
}

// Extract reads all images in one classifier call and returns one expense
// per receipt found, with defaults applied and fresh IDs.
func Extract(ctx context.Context, c classify.Classifier, images []classify.Image) ([]Expense, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if c == nil {
		return nil, classify.ErrUnavailable
	}

	text, err := c.Classify(ctx, classify.Request{
		Prompt:      extractPrompt,
		Images:      images,
		Temperature: ExtractTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("read receipts: %w", err)
	}
	return ParseSuggestions(text)
}

// ParseSuggestions parses a model answer into expenses. Code fences around
// the JSON are ignored and a single object is accepted in place of an array.
func ParseSuggestions(text string) ([]Expense, error) {
	body := classify.StripCodeFence(text)
	if strings.HasPrefix(body, "{") {
		body = "[" + body + "]"
	}

	var items []suggestion
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("parse receipt answer: %w", err)
	}

	expenses := make([]Expense, 0, len(items))
	for _, it := range items {
		e := Expense{
			Date:         cleanText(it.Date),
			Payee:        cleanText(it.Payee),
			Amount:       ParseAmount(it.Amount),
			TaxRate:      cleanText(it.TaxRate),
			TaxType:      cleanText(it.TaxType),
			AccountTitle: cleanText(it.AccountTitle),
			Summary:      cleanText(it.Summary),
		}
		e.applyDefaults()
		expenses = append(expenses, e)
	}
	return expenses, nil
}

var amountNoise = regexp.MustCompile(`[^0-9.-]`)

// ParseAmount accepts a JSON number or a string such as "¥1,100" and returns
// zero for anything unreadable.
func ParseAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero
		}
		s = amountNoise.ReplaceAllString(str, "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LoadImages reads receipt files. The MIME type comes from the extension,
// or from the content when the extension is unknown.
func LoadImages(paths []string) ([]classify.Image, error) {
	images := make([]classify.Image, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
		if mt == "" {
			mt = http.DetectContentType(data)
		}
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
		images = append(images, classify.Image{MIMEType: mt, Data: data})
	}
	return images, nil
}
