// Package gtranslate synthesizes speech through the keyless Google Translate
// TTS endpoint, the same one gTTS uses.
package gtranslate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultBaseURL = "https://translate.google.com/translate_tts"
	// MaxChunkRunes is the longest text the endpoint accepts per request.
	MaxChunkRunes = 100
)

type Engine struct {
	BaseURL string
	httpc   *http.Client
}

func New() *Engine {
	return &Engine{
		BaseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (e *Engine) Name() string { return "gtranslate" }

// Synthesize fetches every chunk in order and concatenates the MP3 streams.
func (e *Engine) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if lang == "" {
		lang = "en"
	}
	parts := Chunks(text, MaxChunkRunes)
	if len(parts) == 0 {
		return nil, fmt.Errorf("gtranslate: nothing to say")
	}
	var out bytes.Buffer
	for i, p := range parts {
		b, err := e.fetch(ctx, p, lang, i, len(parts))
		if err != nil {
			return nil, err
		}
		out.Write(b)
	}
	return out.Bytes(), nil
}

func (e *Engine) fetch(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", text)
	q.Set("tl", lang)
	q.Set("client", "tw-ob")
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Referer", "https://translate.google.com/")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if len(b) > 256 {
			b = b[:256]
		}
		return nil, fmt.Errorf("gtranslate chunk %d/%d: status %d: %s", idx+1, total, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("gtranslate chunk %d/%d: empty body", idx+1, total)
	}
	return b, nil
}

// Chunks splits text into pieces of at most max runes, cutting on word
// boundaries and hard-splitting words that are longer than max.
func Chunks(text string, max int) []string {
	var out []string
	var cur []rune
	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			out = append(out, s)
		}
		cur = cur[:0]
	}
	for _, w := range strings.FieldsFunc(text, unicode.IsSpace) {
		r := []rune(w)
		for len(r) > max {
			flush()
			out = append(out, string(r[:max]))
			r = r[max:]
		}
		need := len(r)
		if len(cur) > 0 {
			need++
		}
		if len(cur)+need > max {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
	}
	flush()
	return out
}
