// Package extract turns uploaded documents into plain text for inlining into
// provider prompts. Unsupported or failed extractions report ok=false and are
// never an error: callers degrade to a textual placeholder.
package extract

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Extractor struct {
	timeout time.Duration
}

func New(timeout time.Duration) *Extractor {
	return &Extractor{timeout: timeout}
}

// Extract reads the file at path and returns its textual content. The mime
// type decides the strategy: text-like types are read verbatim, HTML is
// stripped down to its text. Each call is capped by the configured timeout.
func (e *Extractor) Extract(ctx context.Context, path, mimeType string) (string, bool) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type result struct {
		text string
		ok   bool
	}
	done := make(chan result, 1)
	go func() {
		text, ok := e.extract(path, mimeType)
		done <- result{text, ok}
	}()

	select {
	case <-ctx.Done():
		slog.Warn("document extraction timed out", "path", path, "mime_type", mimeType)
		return "", false
	case r := <-done:
		return r.text, r.ok
	}
}

func (e *Extractor) extract(path, mimeType string) (string, bool) {
	mime := strings.ToLower(mimeType)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch {
	case mime == "text/html", mime == "application/xhtml+xml":
		return extractHTML(path)
	case strings.HasPrefix(mime, "text/"),
		mime == "application/json",
		mime == "application/xml",
		mime == "application/x-yaml":
		return readText(path)
	default:
		return "", false
	}
}

func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("document read failed", "path", path, "error", err)
		return "", false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false
	}
	return text, true
}

func extractHTML(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("document read failed", "path", path, "error", err)
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	doc.Find("script, style, noscript").Remove()
	var parts []string
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		parts = append(parts, sel.Text())
	})
	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		// Fragment without a body element.
		text = doc.Text()
	}
	text = collapseWhitespace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
