package wareki

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		input    string
		format   Format
		expected string
	}{
		{"令和6年4月1日", FormatCompact, "20240401"},
		{"令和6年4月1日", FormatISO, "2024-04-01"},
		{"令6年1月1日", FormatCompact, "20240101"},
		{"令和1年5月1日", FormatCompact, "20190501"},
		{"令和10年12月31日", FormatISO, "2028-12-31"},
		{`"令和 5年 10月 3日"`, FormatCompact, "20231003"},
		{"支給日：令和6年4月25日", FormatISO, "2024-04-25"},
		{"取得日 令和3年7月9日 (予定)", FormatCompact, "20210709"},
		{"20230401", FormatCompact, "20230401"},
		{"2023/04/01", FormatCompact, "20230401"},
		{"支給日：2023/10/31", FormatISO, "2023/10/31"},
		{"支給日:2023年10月31日", FormatISO, "2023年10月31日"},
		{"  支給日 ", FormatISO, ""},
		{"平成30年4月1日", FormatISO, "平成30年4月1日"},
		{"令和６年４月１日", FormatISO, "令和６年４月１日"},
		{"不明", FormatCompact, "不明"},
		{`"2023年 4月"`, FormatCompact, "2023年4月"},
		{" 未 定 ", FormatCompact, "未定"},
		{"支給日： 4月 未定", FormatCompact, "4月未定"},
		{"令和9223372036854775807年1月1日", FormatCompact, "令和9223372036854775807年1月1日"},
		{"令和99999999999999999999年1月1日", FormatISO, "令和99999999999999999999年1月1日"},
		{"令和7981年12月31日", FormatISO, "9999-12-31"},
		{"令和7982年1月1日", FormatISO, "令和7982年1月1日"},
		{"", FormatCompact, ""},
		{"", FormatISO, ""},
	}

	for _, tt := range tests {
		result := Convert(tt.input, tt.format)
		if result != tt.expected {
			t.Errorf("Convert(%q, %s) = %q, expected %q", tt.input, tt.format, result, tt.expected)
		}
	}
}

func TestShortcuts(t *testing.T) {
	if got := ToCompact("令和6年4月1日"); got != "20240401" {
		t.Errorf("ToCompact = %q", got)
	}
	if got := ToISO("令和6年4月1日"); got != "2024-04-01" {
		t.Errorf("ToISO = %q", got)
	}
}

func TestParse(t *testing.T) {
	d, ok := Parse("令和7年3月9日")
	if !ok {
		t.Fatal("expected a match")
	}
	if d != (Date{Year: 2025, Month: 3, Day: 9}) {
		t.Errorf("Parse = %+v", d)
	}
	if _, ok := Parse("2025-03-09"); ok {
		t.Error("Gregorian input must not parse as an era date")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatCompact, false},
		{"compact", FormatCompact, false},
		{"ISO", FormatISO, false},
		{"yyyy-mm-dd", FormatISO, false},
		{"unix", FormatCompact, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseFormat(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
