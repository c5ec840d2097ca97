package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTranslateURL = "https://api.mymemory.translated.net/get"

var ErrNoTranslation = errors.New("no translation")

// MyMemory is a client for the MyMemory translation API (en→vi by default).
type MyMemory struct {
	BaseURL  string
	LangPair string
	hc       *http.Client
}

func NewMyMemory(baseURL string, timeout time.Duration) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultTranslateURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &MyMemory{BaseURL: baseURL, LangPair: "en|vi", hc: &http.Client{Timeout: timeout}}
}

func (m *MyMemory) Translate(ctx context.Context, word string) (string, error) {
	q := url.Values{}
	q.Set("q", word)
	q.Set("langpair", m.LangPair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := m.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	t := strings.TrimSpace(out.ResponseData.TranslatedText)
	switch {
	case t == "",
		strings.EqualFold(t, word),
		strings.Contains(strings.ToUpper(t), "MYMEMORY WARNING"):
		return "", ErrNoTranslation
	}
	return t, nil
}
