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

const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

var ErrNoDefinition = errors.New("no definition")

// Definition is the part of a dictionary entry shown to kids.
type Definition struct {
	Phonetic   string
	Definition string
	Example    string
}

var preferredPOS = []string{"noun", "verb", "adjective", "adverb"}

var blockedKeywords = []string{
	"slang", "vulgar", "offensive", "obscene", "derogatory",
	"sexual", "archaic", "obsolete", "drug",
}

type Dictionary struct {
	BaseURL string
	hc      *http.Client
}

func NewDictionary(baseURL string, timeout time.Duration) *Dictionary {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Dictionary{BaseURL: strings.TrimRight(baseURL, "/"), hc: &http.Client{Timeout: timeout}}
}

type dictEntry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (d *Dictionary) Define(ctx context.Context, word string) (Definition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return Definition{}, err
	}
	resp, err := d.hc.Do(req)
	if err != nil {
		return Definition{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return Definition{}, ErrNoDefinition
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Definition{}, fmt.Errorf("dictionary %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var entries []dictEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return Definition{}, fmt.Errorf("decode dictionary: %w", err)
	}
	return pickDefinition(entries)
}

func pickDefinition(entries []dictEntry) (Definition, error) {
	var out Definition
	for _, e := range entries {
		if out.Phonetic = strings.TrimSpace(e.Phonetic); out.Phonetic != "" {
			break
		}
		for _, p := range e.Phonetics {
			if t := strings.TrimSpace(p.Text); t != "" {
				out.Phonetic = t
				break
			}
		}
		if out.Phonetic != "" {
			break
		}
	}

	// preferred parts of speech first, then any
	order := append(append([]string{}, preferredPOS...), "")
	for _, pos := range order {
		for _, e := range entries {
			for _, m := range e.Meanings {
				if pos != "" && !strings.EqualFold(m.PartOfSpeech, pos) {
					continue
				}
				for _, d := range m.Definitions {
					if d.Definition == "" || blocked(d.Definition) {
						continue
					}
					out.Definition = strings.TrimSpace(d.Definition)
					if d.Example != "" && !blocked(d.Example) {
						out.Example = strings.TrimSpace(d.Example)
					}
					break
				}
				if out.Definition != "" {
					break
				}
			}
			if out.Definition != "" {
				break
			}
		}
		if out.Definition != "" {
			break
		}
	}
	if out.Definition == "" {
		return Definition{}, ErrNoDefinition
	}
	if out.Example == "" {
		out.Example = firstExample(entries)
	}
	return out, nil
}

func firstExample(entries []dictEntry) string {
	for _, e := range entries {
		for _, m := range e.Meanings {
			for _, d := range m.Definitions {
				if d.Example != "" && !blocked(d.Example) && !blocked(d.Definition) {
					return strings.TrimSpace(d.Example)
				}
			}
		}
	}
	return ""
}

func blocked(s string) bool {
	s = strings.ToLower(s)
	for _, k := range blockedKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
