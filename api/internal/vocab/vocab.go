// Package vocab looks up English words for kids: the built-in table first,
// then a public dictionary and an en→vi translation service.
package vocab

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/patrickmn/go-cache"

	"kid-english/api/internal/content"
)

const NotFoundMeaning = "Không tìm thấy từ này."

const (
	foundTTL    = time.Hour
	missTTL     = 5 * time.Minute
	maxSuggDist = 2
)

type Entry struct {
	Word       string `json:"word"`
	Phonetic   string `json:"phonetic"`
	Meaning    string `json:"meaning"`
	Example    string `json:"example"`
	DidYouMean string `json:"did_you_mean,omitempty"`
}

// Found reports whether e carries a real meaning.
func (e Entry) Found() bool { return e.Meaning != "" && e.Meaning != NotFoundMeaning }

// Definer resolves a word through an external dictionary.
type Definer interface {
	Define(ctx context.Context, word string) (Definition, error)
}

// Translator translates an English word into Vietnamese.
type Translator interface {
	Translate(ctx context.Context, word string) (string, error)
}

type Service struct {
	tables *content.Tables
	dict   Definer
	tr     Translator
	cache  *cache.Cache
}

// New builds a lookup service. dict and tr may be nil, in which case only the
// static table is consulted.
func New(t *content.Tables, dict Definer, tr Translator) *Service {
	return &Service{
		tables: t,
		dict:   dict,
		tr:     tr,
		cache:  cache.New(foundTTL, 10*time.Minute),
	}
}

// Lookup never fails; every error degrades to the not-found entry.
func (s *Service) Lookup(ctx context.Context, word string) Entry {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return notFound(w)
	}
	if e, ok := s.tables.Vocabulary[w]; ok {
		return Entry{Word: w, Phonetic: e.Phonetic, Meaning: e.Meaning, Example: e.Example}
	}
	if v, ok := s.cache.Get(w); ok {
		return v.(Entry)
	}

	e, definite := s.remote(ctx, w)
	if e.Found() {
		s.cache.Set(w, e, foundTTL)
		return e
	}
	e.DidYouMean = s.nearest(w)
	// transport errors and upstream 5xx are retried on the next lookup
	if definite {
		s.cache.Set(w, e, missTTL)
	}
	return e
}

// remote asks the dictionary and the translator. definite reports that the
// dictionary answered "no such word" rather than failing.
func (s *Service) remote(ctx context.Context, w string) (e Entry, definite bool) {
	if s.dict == nil && s.tr == nil {
		return notFound(w), false
	}
	var def Definition
	if s.dict != nil {
		d, err := s.dict.Define(ctx, w)
		switch {
		case errors.Is(err, ErrNoDefinition):
			definite = true
		case err != nil:
			log.Printf("[vocab] dictionary %q: %v", w, err)
		default:
			def = d
		}
	}
	var meaning string
	if s.tr != nil {
		m, err := s.tr.Translate(ctx, w)
		if err != nil {
			log.Printf("[vocab] translate %q: %v", w, err)
		} else {
			meaning = m
		}
	}
	if meaning == "" {
		meaning = def.Definition
	}
	if meaning == "" {
		return notFound(w), definite
	}
	return Entry{Word: w, Phonetic: def.Phonetic, Meaning: meaning, Example: def.Example}, false
}

// nearest returns the closest table word within maxSuggDist edits, or "".
func (s *Service) nearest(w string) string {
	if len([]rune(w)) < 3 {
		return ""
	}
	best, bestDist := "", maxSuggDist+1
	for _, cand := range s.tables.WordList {
		d := levenshtein.ComputeDistance(w, cand)
		if d > 0 && d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

func notFound(w string) Entry {
	return Entry{Word: w, Meaning: NotFoundMeaning}
}
