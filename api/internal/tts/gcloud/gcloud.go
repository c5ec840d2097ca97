// Package gcloud synthesizes speech with the Google Cloud Text-to-Speech REST API.
package gcloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

type Engine struct {
	APIKey  string
	BaseURL string
	httpc   *http.Client
}

func New(apiKey string) *Engine {
	return &Engine{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (e *Engine) Name() string { return "gcloud" }

// languageCode widens a bare language to the regional voice the API expects.
func languageCode(lang string) string {
	switch strings.ToLower(lang) {
	case "", "en":
		return "en-US"
	case "vi":
		return "vi-VN"
	}
	return lang
}

func (e *Engine) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if e.APIKey == "" {
		return nil, errors.New("GOOGLE_TTS_API_KEY is empty")
	}
	reqBody := map[string]any{
		"input": map[string]string{"text": text},
		"voice": map[string]any{
			"languageCode": languageCode(lang),
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]any{
			"audioEncoding": "MP3",
			// a little slower for young learners
			"speakingRate": 0.9,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("TTS API returned no audio")
	}
	return audio, nil
}
