// Package huggingface calls a text-generation model on the Hugging Face
// Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kid-english/api/internal/llm"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "HuggingFaceH4/zephyr-7b-beta"
)

type Engine struct {
	Token   string
	Model   string
	BaseURL string
	httpc   *http.Client
}

func New(token, model string) *Engine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Engine{
		Token:   strings.TrimSpace(token),
		Model:   strings.TrimSpace(model),
		BaseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string { return "hf" }

func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	if e.Token == "" {
		return "", fmt.Errorf("HF_TOKEN not set")
	}
	input := buildInput(p)
	payload, _ := json.Marshal(map[string]any{
		"inputs": input,
		"parameters": map[string]any{
			"max_new_tokens":   200,
			"temperature":      0.6,
			"return_full_text": false,
		},
		"options": map[string]any{"wait_for_model": true},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(e.BaseURL, "/")+"/"+e.Model, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.Token)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		b := string(raw)
		if len(b) > 512 {
			b = b[:512] + "..."
		}
		return "", &llm.StatusError{Engine: "huggingface", Code: resp.StatusCode, Body: b}
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("huggingface decode: %w: %v", llm.ErrMalformed, err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("huggingface: %w", llm.ErrEmptyResponse)
	}
	txt := strings.TrimSpace(strings.TrimPrefix(out[0].GeneratedText, input))
	if txt == "" {
		return "", fmt.Errorf("huggingface: %w", llm.ErrEmptyResponse)
	}
	return txt, nil
}

// buildInput flattens the prompt into the plain-text turn format most
// instruction-tuned models on the Inference API accept.
func buildInput(p llm.Prompt) string {
	var b strings.Builder
	if sys := strings.TrimSpace(p.System); sys != "" {
		b.WriteString("<|system|>\n")
		b.WriteString(sys)
		b.WriteString("</s>\n")
	}
	b.WriteString("<|user|>\n")
	b.WriteString(p.UserText())
	b.WriteString("</s>\n<|assistant|>\n")
	return b.String()
}
