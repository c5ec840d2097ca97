// Package llm defines the text-generation engines behind the chat assistant
// and the helpers shared by all of them.
package llm

import (
	"context"
	"strings"
	"sync"
)

// SystemPrompt is the persona every engine is given.
const SystemPrompt = `You are a kind, patient English teacher for Vietnamese children aged 6 to 11.
Answer in simple English with a short Vietnamese explanation in parentheses when it helps.
Keep answers under four short sentences. Never use rude, scary or adult content.
If the child writes in Vietnamese, help them say it in English.
Do not use markdown, lists or code blocks.`

type Prompt struct {
	System  string
	Message string
	// Context is optional lesson text the child is looking at.
	Context string
}

// UserText joins the optional context and the message into one user turn.
func (p Prompt) UserText() string {
	if c := strings.TrimSpace(p.Context); c != "" {
		return "Lesson context: " + c + "\n\nChild: " + strings.TrimSpace(p.Message)
	}
	return strings.TrimSpace(p.Message)
}

type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Engines holds every configured engine; a nil field means no credentials.
type Engines struct {
	Gemini      Engine
	OpenAI      Engine
	HuggingFace Engine
}

// ByName resolves user-facing engine names, aliases included.
func (e *Engines) ByName(name string) (Engine, bool) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini", "google":
		eng = e.Gemini
	case "gpt", "openai", "chatgpt":
		eng = e.OpenAI
	case "hf", "huggingface", "hugging-face":
		eng = e.HuggingFace
	}
	return eng, eng != nil
}

// Select picks the preferred engine, or the first configured one.
// It returns nil when no engine has credentials (offline mode).
func (e *Engines) Select(preferred string) Engine {
	if strings.EqualFold(strings.TrimSpace(preferred), "offline") {
		return nil
	}
	if eng, ok := e.ByName(preferred); ok {
		return eng
	}
	for _, eng := range []Engine{e.Gemini, e.OpenAI, e.HuggingFace} {
		if eng != nil {
			return eng
		}
	}
	return nil
}

// Available lists the names of configured engines.
func (e *Engines) Available() []string {
	var out []string
	for _, eng := range []Engine{e.Gemini, e.OpenAI, e.HuggingFace} {
		if eng != nil {
			out = append(out, eng.Name())
		}
	}
	return out
}

// Manager keeps a per-chat engine override on top of a default engine.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

// offline marks a chat that explicitly turned generation off.
type offline struct{}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		if _, off := v.(offline); off {
			return nil
		}
		return v.(Engine)
	}
	return m.def
}

// Set stores e for chatID; a nil e switches the chat to offline replies.
func (m *Manager) Set(chatID int64, e Engine) {
	if e == nil {
		m.m.Store(chatID, offline{})
		return
	}
	m.m.Store(chatID, e)
}
