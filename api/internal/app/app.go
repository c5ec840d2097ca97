// Package app builds the shared components from configuration for both
// front ends (HTTP server and Telegram bot).
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"kid-english/api/internal/chat"
	"kid-english/api/internal/config"
	"kid-english/api/internal/content"
	"kid-english/api/internal/llm"
	"kid-english/api/internal/llm/gemini"
	"kid-english/api/internal/llm/huggingface"
	"kid-english/api/internal/llm/openai"
	"kid-english/api/internal/store"
	"kid-english/api/internal/suggest"
	"kid-english/api/internal/tts"
	"kid-english/api/internal/tts/gcloud"
	"kid-english/api/internal/tts/gtranslate"
	"kid-english/api/internal/vocab"
)

type App struct {
	Tables    *content.Tables
	Suggester *suggest.Suggester
	Vocab     *vocab.Service
	Engines   *llm.Engines
	Chat      *chat.Responder
	TTS       *tts.Service
	// DB is nil when no Postgres is configured.
	DB *sql.DB
}

// Build wires every component. Only a broken audio directory or an
// unreachable configured database is fatal.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Tables: content.Default()}

	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Printf("db connected: %s", store.SafeDSNSummary(cfg.DatabaseURL))
		a.DB = db
	}

	a.Suggester = suggest.New(a.Tables)
	a.Vocab = vocab.New(a.Tables,
		vocab.NewDictionary(cfg.DictionaryURL, cfg.DictionaryTimeout),
		vocab.NewMyMemory(cfg.TranslateURL, cfg.TranslateTimeout),
	)

	a.Engines = Engines(cfg)
	def := a.Engines.Select(cfg.ChatEngine)
	if def != nil {
		log.Printf("chat engine: %s (%s); available: %v", def.Name(), def.GetModel(), a.Engines.Available())
	} else {
		log.Printf("chat engine: offline (no API keys)")
	}
	a.Chat = chat.New(a.Tables, a.Vocab, chat.WithEngine(def), chat.WithTimeout(cfg.ChatTimeout))

	st, err := tts.NewStore(cfg.TTSDir)
	if err != nil {
		return nil, err
	}
	eng, err := ttsEngine(cfg)
	if err != nil {
		return nil, err
	}
	opts := []tts.Option{tts.WithLang(cfg.TTSLang), tts.WithTTL(cfg.TTSAudioTTL)}
	if a.DB != nil {
		repo := store.NewAudioRepo(a.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("audio schema: %w", err)
		}
		opts = append(opts, tts.WithIndex(repo))
	}
	a.TTS = tts.NewService(eng, st, opts...)
	log.Printf("tts engine: %s, dir=%s, ttl=%s", eng.Name(), cfg.TTSDir, cfg.TTSAudioTTL)
	return a, nil
}

// Engines creates a text-generation engine for every configured key.
func Engines(cfg *config.Config) *llm.Engines {
	e := &llm.Engines{}
	if cfg.GeminiAPIKey != "" {
		e.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" {
		e.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.HFToken != "" {
		e.HuggingFace = huggingface.New(cfg.HFToken, cfg.HFModel)
	}
	return e
}

func ttsEngine(cfg *config.Config) (tts.Engine, error) {
	switch cfg.TTSEngine {
	case "", "gtranslate":
		return gtranslate.New(), nil
	case "gcloud":
		if cfg.GoogleTTSAPIKey == "" {
			return nil, fmt.Errorf("TTS_ENGINE=gcloud needs GOOGLE_TTS_API_KEY")
		}
		return gcloud.New(cfg.GoogleTTSAPIKey), nil
	}
	return nil, fmt.Errorf("unknown TTS_ENGINE %q", cfg.TTSEngine)
}

// Close releases the database, if any.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
