package classify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGeminiClassify(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" 70 \n"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL+"/", "test-model", "secret", time.Second)
	text, err := g.Classify(context.Background(), Request{
		Prompt:      "資産種類名: パソコン",
		Images:      []Image{{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if text != "70" {
		t.Errorf("text = %q, expected 70", text)
	}

	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if got.Contents[0].Parts[0].Text != "資産種類名: パソコン" {
		t.Errorf("prompt = %q", got.Contents[0].Parts[0].Text)
	}
	img := got.Contents[0].Parts[1].InlineData
	if img == nil || img.MIMEType != "image/png" || img.Data != base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) {
		t.Errorf("inline data = %+v", img)
	}
	if got.GenerationConfig.Temperature != 0.1 {
		t.Errorf("temperature = %v", got.GenerationConfig.Temperature)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusTooManyRequests, `{}`, "status 429"},
		{"malformed body", http.StatusOK, `not json`, "decode response"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGemini(srv.URL, "m", "k", time.Second).Classify(context.Background(), Request{Prompt: "x"})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiWithoutKey(t *testing.T) {
	_, err := NewGemini("", "", "", 0).Classify(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, expected ErrUnavailable", err)
	}

	var nilClient *Gemini
	if _, err := nilClient.Classify(context.Background(), Request{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil client err = %v", err)
	}
}

func TestNop(t *testing.T) {
	if _, err := (Nop{}).Classify(context.Background(), Request{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"```\n70\n```", "70"},
		{"  plain ", "plain"},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.input); got != tt.expected {
			t.Errorf("StripCodeFence(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
