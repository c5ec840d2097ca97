// Package suggest picks an English example sentence for a Vietnamese prompt.
package suggest

import (
	"math/rand/v2"
	"strings"

	"kid-english/api/internal/content"
	"kid-english/api/internal/util"
)

type Request struct {
	Vietnamese string `json:"vietnamese"`
	Topic      string `json:"topic,omitempty"`
	Level      string `json:"level,omitempty"`
}

type Suggester struct {
	tables *content.Tables
	pick   func(n int) int
}

type Option func(*Suggester)

// WithPicker replaces the uniform random index source.
func WithPicker(pick func(n int) int) Option {
	return func(s *Suggester) { s.pick = pick }
}

func New(t *content.Tables, opts ...Option) *Suggester {
	s := &Suggester{tables: t, pick: rand.IntN}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Suggest walks the rules in order: Vietnamese keyword rules, topic table,
// level table, generic templates. The first match wins.
func (s *Suggester) Suggest(req Request) string {
	vi := util.Fold(req.Vietnamese)
	if vi != "" {
		for _, r := range s.tables.SuggestRules {
			for _, k := range r.Keywords {
				if strings.Contains(vi, k) {
					return r.Sentence
				}
			}
		}
	}
	if out, ok := s.fromGroups(s.tables.Topics, req.Topic); ok {
		return out
	}
	if out, ok := s.fromGroups(s.tables.Levels, req.Level); ok {
		return out
	}
	return s.choose(s.tables.Templates)
}

func (s *Suggester) fromGroups(groups []content.Group, key string) (string, bool) {
	key = util.Fold(key)
	if key == "" {
		return "", false
	}
	for _, g := range groups {
		if len(g.Sentences) > 0 && strings.Contains(key, g.Name) {
			return s.choose(g.Sentences), true
		}
	}
	return "", false
}

func (s *Suggester) choose(list []string) string {
	if len(list) == 0 {
		return ""
	}
	i := s.pick(len(list))
	if i < 0 || i >= len(list) {
		i = 0
	}
	return list[i]
}

func (s *Suggester) Topics() []string { return s.tables.TopicNames() }

func (s *Suggester) Levels() []string { return s.tables.LevelNames() }
