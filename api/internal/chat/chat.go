// Package chat answers free-form messages from kids: vocabulary questions,
// a keyword table of canned answers, an optional text-generation engine and
// random canned replies when everything else is unavailable.
package chat

import (
	"context"
	"log"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"kid-english/api/internal/content"
	"kid-english/api/internal/llm"
	"kid-english/api/internal/util"
	"kid-english/api/internal/vocab"
)

type Request struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// Lookuper is the slice of the vocabulary service chat needs.
type Lookuper interface {
	Lookup(ctx context.Context, word string) vocab.Entry
}

type Responder struct {
	tables  *content.Tables
	vocab   Lookuper
	engine  llm.Engine
	timeout time.Duration
	pick    func(n int) int
	lang    func(text string) Lang
}

type Option func(*Responder)

// WithEngine sets the default text-generation engine; nil means offline.
func WithEngine(e llm.Engine) Option { return func(r *Responder) { r.engine = e } }

func WithTimeout(d time.Duration) Option { return func(r *Responder) { r.timeout = d } }

func WithPicker(pick func(n int) int) Option { return func(r *Responder) { r.pick = pick } }

func WithLangDetector(f func(text string) Lang) Option { return func(r *Responder) { r.lang = f } }

func New(t *content.Tables, v Lookuper, opts ...Option) *Responder {
	r := &Responder{
		tables:  t,
		vocab:   v,
		timeout: 20 * time.Second,
		pick:    rand.IntN,
		lang:    DetectLang,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Engine returns the default engine, nil when offline.
func (r *Responder) Engine() llm.Engine { return r.engine }

// Reply answers with the default engine. It never fails.
func (r *Responder) Reply(ctx context.Context, req Request) string {
	return r.ReplyWith(ctx, r.engine, req)
}

// ReplyWith answers using eng for free-form questions (nil means offline).
func (r *Responder) ReplyWith(ctx context.Context, eng llm.Engine, req Request) string {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return r.tables.ChatEmpty
	}

	if word, ok := r.vocabTarget(msg); ok && r.vocab != nil {
		if e := r.vocab.Lookup(ctx, word); e.Found() {
			return formatEntry(e)
		}
	}

	if reply, ok := r.keywordReply(msg); ok {
		return reply
	}

	if eng != nil {
		return r.generate(ctx, eng, req)
	}
	return r.canned(msg)
}

func (r *Responder) keywordReply(msg string) (string, bool) {
	toks := util.Tokens(msg)
	for _, kr := range r.tables.ChatKeywords {
		for _, k := range kr.Keywords {
			if containsSeq(toks, strings.Fields(k)) {
				return kr.Reply, true
			}
		}
	}
	return "", false
}

func (r *Responder) generate(ctx context.Context, eng llm.Engine, req Request) string {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	p := llm.Prompt{
		System:  llm.SystemPrompt,
		Message: util.ClampRunes(strings.TrimSpace(req.Message), 1000),
		Context: util.ClampRunes(strings.TrimSpace(req.Context), 2000),
	}
	start := time.Now()
	raw, err := eng.Generate(ctx, p)
	if err != nil {
		kind := llm.Classify(err)
		log.Printf("[chat] %s/%s failed after %s (%s): %v", eng.Name(), eng.GetModel(), time.Since(start).Round(time.Millisecond), kind, err)
		return r.fallback(kind)
	}
	out := llm.Clean(raw, p.UserText())
	if out == "" {
		return r.fallback(llm.KindMalformed)
	}
	return out
}

func (r *Responder) fallback(k llm.Kind) string {
	fb := r.tables.ChatFallbacks
	switch k {
	case llm.KindTimeout:
		return fb.Timeout
	case llm.KindUpstream:
		return fb.Upstream
	case llm.KindMalformed:
		return fb.Malformed
	}
	return fb.Unavailable
}

func (r *Responder) canned(msg string) string {
	pool := r.tables.CannedVI
	if r.lang(msg) == English {
		pool = r.tables.CannedEN
	}
	i := r.pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

var vocabPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^what does (.+?) mean$`),
	regexp.MustCompile(`^(?:what is|what's|what’s|whats) (?:the )?meaning of (.+)$`),
	regexp.MustCompile(`^(?:what is|what's|what’s|whats) (.+)$`),
	regexp.MustCompile(`^(?:the )?meaning of (.+)$`),
	regexp.MustCompile(`^define (.+)$`),
	regexp.MustCompile(`^(?:từ )?(.+?) có nghĩa là gì$`),
	regexp.MustCompile(`^(?:từ )?(.+?) (?:nghĩa )?là gì$`),
}

var wordShape = regexp.MustCompile(`^[a-z][a-z' -]*$`)

// Words that make "what is X" a conversation opener rather than a lookup.
var notLookup = map[string]bool{
	"your": true, "my": true, "his": true, "her": true, "their": true, "our": true,
	"this": true, "that": true, "it": true, "up": true, "he": true, "she": true,
	"you": true, "i": true, "we": true, "they": true,
}

// vocabTarget narrows vocabQuestion to a single word or a phrase from the
// vocabulary table, so chatty questions reach the keyword table without
// any outbound lookup.
func (r *Responder) vocabTarget(msg string) (string, bool) {
	w, ok := vocabQuestion(msg)
	if !ok {
		return "", false
	}
	if _, known := r.tables.Vocabulary[w]; known {
		return w, true
	}
	f := strings.Fields(w)
	if len(f) != 1 || notLookup[f[0]] {
		return "", false
	}
	return w, true
}

// vocabQuestion extracts X from "what is X" style questions. Only short
// English words or phrases qualify.
func vocabQuestion(msg string) (string, bool) {
	q := util.CollapseSpaces(util.Fold(msg))
	q = strings.TrimRight(q, " ?!.")
	for _, re := range vocabPatterns {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		w := strings.Trim(m[1], " \"'“”‘’`")
		for _, art := range []string{"a ", "an ", "the ", "word ", "từ "} {
			w = strings.TrimPrefix(w, art)
		}
		w = strings.Trim(w, " \"'“”‘’`")
		if w == "" || !wordShape.MatchString(w) || len(strings.Fields(w)) > 3 {
			return "", false
		}
		return w, true
	}
	return "", false
}

func formatEntry(e vocab.Entry) string {
	var b strings.Builder
	b.WriteString(`"` + e.Word + `"`)
	if e.Phonetic != "" {
		b.WriteString(" " + e.Phonetic)
	}
	b.WriteString(": " + strings.TrimRight(e.Meaning, ".") + ".")
	if e.Example != "" {
		b.WriteString(" Example: " + e.Example)
	}
	return b.String()
}

func containsSeq(toks, seq []string) bool {
	if len(seq) == 0 || len(seq) > len(toks) {
		return false
	}
outer:
	for i := 0; i+len(seq) <= len(toks); i++ {
		for j := range seq {
			if toks[i+j] != seq[j] {
				continue outer
			}
		}
		return true
	}
	return false
}
