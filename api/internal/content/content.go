// Package content holds the read-only lookup tables served by the API:
// example sentences by topic and level, the vocabulary table and the chat
// keyword table. Tables are embedded JSON decoded once and never written afterwards.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"kid-english/api/internal/util"
)

//go:embed data/*.json
var dataFS embed.FS

// Group is a named, ordered list of example sentences (a topic or a level).
type Group struct {
	Name      string   `json:"name"`
	Sentences []string `json:"sentences"`
}

// Rule maps Vietnamese keywords to a fixed English sentence.
type Rule struct {
	Keywords []string `json:"keywords"`
	Sentence string   `json:"sentence"`
}

type Word struct {
	Word     string `json:"word"`
	Phonetic string `json:"phonetic"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example"`
}

type KeywordReply struct {
	Keywords []string `json:"keywords"`
	Reply    string   `json:"reply"`
}

// ChatFallbacks are the replies used when the text-generation engine fails.
type ChatFallbacks struct {
	Timeout     string `json:"timeout"`
	Upstream    string `json:"upstream"`
	Malformed   string `json:"malformed"`
	Unavailable string `json:"unavailable"`
}

type Tables struct {
	Topics       []Group
	Levels       []Group
	SuggestRules []Rule
	Templates    []string

	Vocabulary map[string]Word
	// WordList keeps vocabulary keys in file order for nearest-match scans.
	WordList []string

	ChatEmpty     string
	ChatKeywords  []KeywordReply
	CannedVI      []string
	CannedEN      []string
	ChatFallbacks ChatFallbacks
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the tables embedded in the binary. A broken embedded file is
// a build defect, so it panics rather than returning an error.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Load(dataFS)
		if err != nil {
			panic(fmt.Sprintf("content: load embedded tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load decodes the tables from the data/ directory of fsys.
func Load(fsys fs.FS) (*Tables, error) {
	t := &Tables{}

	if err := readJSON(fsys, "topics.json", &t.Topics); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, "levels.json", &t.Levels); err != nil {
		return nil, err
	}

	var sug struct {
		Rules     []Rule   `json:"rules"`
		Templates []string `json:"templates"`
	}
	if err := readJSON(fsys, "suggest.json", &sug); err != nil {
		return nil, err
	}
	if len(sug.Templates) == 0 {
		return nil, fmt.Errorf("suggest.json: no templates")
	}
	t.SuggestRules = sug.Rules
	t.Templates = sug.Templates

	var words []Word
	if err := readJSON(fsys, "vocabulary.json", &words); err != nil {
		return nil, err
	}
	t.Vocabulary = make(map[string]Word, len(words))
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w.Word))
		if key == "" {
			return nil, fmt.Errorf("vocabulary.json: empty word")
		}
		if _, dup := t.Vocabulary[key]; dup {
			return nil, fmt.Errorf("vocabulary.json: duplicate word %q", key)
		}
		w.Word = key
		t.Vocabulary[key] = w
		t.WordList = append(t.WordList, key)
	}

	var chat struct {
		Empty    string         `json:"empty"`
		Keywords []KeywordReply `json:"keywords"`
		Canned   struct {
			VI []string `json:"vi"`
			EN []string `json:"en"`
		} `json:"canned"`
		Fallbacks ChatFallbacks `json:"fallbacks"`
	}
	if err := readJSON(fsys, "chat.json", &chat); err != nil {
		return nil, err
	}
	if len(chat.Canned.VI) == 0 || len(chat.Canned.EN) == 0 {
		return nil, fmt.Errorf("chat.json: canned replies are required for both languages")
	}
	t.ChatEmpty = chat.Empty
	t.ChatKeywords = chat.Keywords
	t.CannedVI = chat.Canned.VI
	t.CannedEN = chat.Canned.EN
	t.ChatFallbacks = chat.Fallbacks

	foldGroups(t.Topics)
	foldGroups(t.Levels)
	for i := range t.SuggestRules {
		foldAll(t.SuggestRules[i].Keywords)
	}
	for i := range t.ChatKeywords {
		foldAll(t.ChatKeywords[i].Keywords)
	}
	return t, nil
}

// TopicNames returns topic keys in table order.
func (t *Tables) TopicNames() []string { return names(t.Topics) }

// LevelNames returns level keys in table order.
func (t *Tables) LevelNames() []string { return names(t.Levels) }

func names(gs []Group) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, "data/"+name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func foldGroups(gs []Group) {
	for i := range gs {
		gs[i].Name = util.Fold(gs[i].Name)
	}
}

func foldAll(ss []string) {
	for i := range ss {
		ss[i] = util.Fold(ss[i])
	}
}
