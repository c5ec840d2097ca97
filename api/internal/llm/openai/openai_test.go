package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kid-english/api/internal/llm"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth = %q", got)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "gpt-4o-mini" || len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("body = %+v", body)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hi! Let's learn."}}]}`))
	}))
	defer srv.Close()

	e := New("sk-test", "gpt-4o-mini")
	e.BaseURL = srv.URL
	got, err := e.Generate(context.Background(), llm.Prompt{System: llm.SystemPrompt, Message: "hello"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Hi! Let's learn." {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   llm.Kind
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, llm.KindUpstream},
		{"bad json", http.StatusOK, `{"choices":`, llm.KindMalformed},
		{"no choices", http.StatusOK, `{"choices":[]}`, llm.KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e := New("sk-test", "gpt-4o-mini")
			e.BaseURL = srv.URL
			_, err := e.Generate(context.Background(), llm.Prompt{Message: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := llm.Classify(err); got != tt.want {
				t.Fatalf("Classify = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestGenerateStatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := New("sk-test", "m")
	e.BaseURL = srv.URL
	_, err := e.Generate(context.Background(), llm.Prompt{Message: "hi"})
	var se *llm.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v", err)
	}
}
