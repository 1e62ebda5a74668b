// Package classify wraps an external language model that suggests values
// for fields the converters cannot read directly (asset type codes, receipt
// contents). Every answer is a suggestion the user may overwrite.
package classify

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable reports that no classifier is configured.
var ErrUnavailable = errors.New("classifier unavailable")

// Image is inline binary input such as a receipt photo or PDF.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is one classification call.
type Request struct {
	Prompt      string
	Images      []Image
	Temperature float64
}

// Classifier returns a best-effort text answer for a request.
type Classifier interface {
	Classify(ctx context.Context, req Request) (string, error)
}

// Nop is a Classifier that is never available.
type Nop struct{}

// Classify always returns ErrUnavailable.
func (Nop) Classify(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, req Request) (string, error)

// Classify calls f.
func (f Func) Classify(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// StripCodeFence removes Markdown code fences (```json ... ```) that models
// tend to wrap structured answers in.
func StripCodeFence(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
