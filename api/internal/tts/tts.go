// Package tts turns text into MP3 files served back to the web client by id.
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	ErrEmptyText = errors.New("text is required")
	ErrNotFound  = errors.New("audio not found")
)

// Engine synthesizes MP3 audio for text in the given language.
type Engine interface {
	Name() string
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// Record is one synthesized file as remembered by an Index.
type Record struct {
	Hash       string
	Engine     string
	FileID     string
	Text       string
	DurationMS int64
}

// Index remembers which file already holds the audio for a text so repeated
// requests reuse it. FindAudio returns "" with a nil error on a miss.
type Index interface {
	FindAudio(ctx context.Context, hash, engine string, maxAge time.Duration) (string, error)
	RecordAudio(ctx context.Context, rec Record) error
	PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Service struct {
	eng   Engine
	store *Store
	index Index
	lang  string
	ttl   time.Duration
}

type Option func(*Service)

// WithIndex enables dedupe of repeated texts.
func WithIndex(ix Index) Option { return func(s *Service) { s.index = ix } }

func WithLang(lang string) Option { return func(s *Service) { s.lang = lang } }

// WithTTL sets how long a file lives; 0 keeps files forever.
func WithTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

func NewService(eng Engine, store *Store, opts ...Option) *Service {
	s := &Service{eng: eng, store: store, lang: "en"}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Store() *Store { return s.store }

func (s *Service) EngineName() string { return s.eng.Name() }

// Key is the dedupe key of a text for one engine and language.
func Key(lang, engine, text string) string {
	h := sha256.Sum256([]byte(lang + ":" + engine + ":" + text))
	return hex.EncodeToString(h[:])
}

// Speak synthesizes text (or reuses an indexed file) and returns the file id.
func (s *Service) Speak(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	key := Key(s.lang, s.eng.Name(), text)

	if s.index != nil {
		id, err := s.index.FindAudio(ctx, key, s.eng.Name(), s.ttl)
		switch {
		case err != nil:
			log.Printf("[tts] index lookup: %v", err)
		case id != "" && s.store.Exists(id):
			return id, nil
		}
	}

	start := time.Now()
	audio, err := s.eng.Synthesize(ctx, text, s.lang)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.eng.Name(), err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%s: empty audio", s.eng.Name())
	}

	var durMS int64
	if d, err := Duration(audio); err != nil {
		log.Printf("[tts] duration probe: %v", err)
	} else {
		durMS = d.Milliseconds()
	}

	id, err := s.store.Save(audio)
	if err != nil {
		return "", err
	}
	log.Printf("[tts] %s: %d runes -> %s (%d bytes, %dms audio) in %s",
		s.eng.Name(), len([]rune(text)), id, len(audio), durMS, time.Since(start).Round(time.Millisecond))

	if s.index != nil {
		rec := Record{Hash: key, Engine: s.eng.Name(), FileID: id, Text: text, DurationMS: durMS}
		if err := s.index.RecordAudio(ctx, rec); err != nil {
			log.Printf("[tts] index record: %v", err)
		}
	}
	return id, nil
}
