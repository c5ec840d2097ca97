package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

type stub struct{ name string }

func (s stub) Name() string                                     { return s.name }
func (s stub) GetModel() string                                 { return s.name + "-model" }
func (s stub) Generate(context.Context, Prompt) (string, error) { return "", nil }

func TestEnginesSelect(t *testing.T) {
	all := &Engines{Gemini: stub{"gemini"}, OpenAI: stub{"gpt"}, HuggingFace: stub{"hf"}}
	cases := map[string]string{"": "gemini", "gpt": "gpt", "OpenAI": "gpt", "hf": "hf", "unknown": "gemini"}
	for pref, want := range cases {
		if got := all.Select(pref); got == nil || got.Name() != want {
			t.Errorf("Select(%q) = %v, want %s", pref, got, want)
		}
	}
	if got := all.Select("offline"); got != nil {
		t.Errorf("offline = %v", got)
	}

	onlyHF := &Engines{HuggingFace: stub{"hf"}}
	if got := onlyHF.Select("gemini"); got == nil || got.Name() != "hf" {
		t.Errorf("fallback = %v", got)
	}
	if got := (&Engines{}).Select(""); got != nil {
		t.Errorf("empty = %v", got)
	}
	if got := onlyHF.Available(); len(got) != 1 || got[0] != "hf" {
		t.Errorf("available = %v", got)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(stub{"gemini"})
	if m.Get(1).Name() != "gemini" {
		t.Fatal("default not returned")
	}
	m.Set(1, stub{"gpt"})
	if m.Get(1).Name() != "gpt" || m.Get(2).Name() != "gemini" {
		t.Fatal("override leaked between chats")
	}
	m.Set(2, nil)
	if m.Get(2) != nil {
		t.Fatal("offline override ignored")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{context.DeadlineExceeded, KindTimeout},
		{fmt.Errorf("gemini: %w", context.DeadlineExceeded), KindTimeout},
		{&StatusError{Engine: "gpt", Code: 429, Body: "rate"}, KindUpstream},
		{fmt.Errorf("wrap: %w", &StatusError{Engine: "hf", Code: 503}), KindUpstream},
		{ErrEmptyResponse, KindMalformed},
		{fmt.Errorf("decode: %w", ErrMalformed), KindMalformed},
		{errors.New("dial tcp: refused"), KindOther},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestClean(t *testing.T) {
	raw := "```\nAssistant: **Apple** means  quả táo.\n\nTry: I eat an apple.\n```"
	got := Clean(raw, "")
	if got != "Apple means quả táo. Try: I eat an apple." {
		t.Fatalf("got %q", got)
	}

	echoed := Clean("what is a cat? A cat is a small animal.", "what is a cat?")
	if echoed != "A cat is a small animal." {
		t.Fatalf("echo not dropped: %q", echoed)
	}

	long := strings.Repeat("Cats are cute. ", 100)
	if n := utf8.RuneCountInString(Clean(long, "")); n > MaxReplyRunes {
		t.Fatalf("reply has %d runes", n)
	}
}

func TestPromptUserText(t *testing.T) {
	p := Prompt{Message: " hi ", Context: "Lesson 1: colors"}
	if got := p.UserText(); !strings.HasPrefix(got, "Lesson context: Lesson 1: colors") || !strings.HasSuffix(got, "Child: hi") {
		t.Fatalf("got %q", got)
	}
	if got := (Prompt{Message: "hi"}).UserText(); got != "hi" {
		t.Fatalf("got %q", got)
	}
}
