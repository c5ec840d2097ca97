package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	PublicBaseURL string
	CORSOrigins   []string
	WSEnabled     bool

	TTSDir           string
	TTSEngine        string
	TTSLang          string
	GoogleTTSAPIKey  string
	TTSAudioTTL      time.Duration
	TTSSweepInterval time.Duration

	ChatEngine   string
	ChatTimeout  time.Duration
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	HFToken      string
	HFModel      string

	DictionaryURL     string
	TranslateURL      string
	DictionaryTimeout time.Duration
	TranslateTimeout  time.Duration

	// DatabaseURL is empty when no Postgres is configured.
	DatabaseURL string

	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: bad %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: bad %s=%q, using %t", k, v, def)
		return def
	}
	return b
}

func getList(k, def string) []string {
	var out []string
	for _, p := range strings.Split(getEnv(k, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the environment, merging an optional .env file first.
// Variables already set in the environment win over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	return &Config{
		Port:          getEnv("PORT", "8000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		CORSOrigins:   getList("CORS_ORIGINS", "*"),
		WSEnabled:     getBool("WS_ENABLED", true),

		TTSDir:           getEnv("TTS_DIR", "tts_audio"),
		TTSEngine:        strings.ToLower(getEnv("TTS_ENGINE", "gtranslate")),
		TTSLang:          getEnv("TTS_LANG", "en"),
		GoogleTTSAPIKey:  getEnv("GOOGLE_TTS_API_KEY", ""),
		TTSAudioTTL:      getDuration("TTS_AUDIO_TTL", 24*time.Hour),
		TTSSweepInterval: getDuration("TTS_SWEEP_INTERVAL", 10*time.Minute),

		ChatEngine:   strings.ToLower(getEnv("CHAT_ENGINE", "")),
		ChatTimeout:  getDuration("CHAT_TIMEOUT", 20*time.Second),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HFToken:      getEnv("HF_TOKEN", ""),
		HFModel:      getEnv("HF_MODEL", ""),

		DictionaryURL:     getEnv("DICTIONARY_URL", ""),
		TranslateURL:      getEnv("TRANSLATE_URL", ""),
		DictionaryTimeout: getDuration("DICTIONARY_TIMEOUT", 6*time.Second),
		TranslateTimeout:  getDuration("TRANSLATE_TIMEOUT", 8*time.Second),

		DatabaseURL: resolveDSN(),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// LoadBot is Load for the Telegram front end, where the token is mandatory.
func LoadBot() *Config {
	cfg := Load()
	cfg.TelegramBotToken = mustEnv("TELEGRAM_BOT_TOKEN")
	return cfg
}

// resolveDSN prefers DATABASE_URL and otherwise builds a DSN from POSTGRES_* /
// PG* variables. No host and no password means the database is not used.
func resolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	host := getEnv("PGHOST", getEnv("POSTGRES_HOST", ""))
	pass := os.Getenv("POSTGRES_PASSWORD")
	if host == "" && pass == "" {
		return ""
	}
	if host == "" {
		host = "db"
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "kidenglish"), pass),
		Host:     net.JoinHostPort(host, getEnv("PGPORT", "5432")),
		Path:     "/" + getEnv("POSTGRES_DB", "kidenglish"),
		RawQuery: "sslmode=" + getEnv("PGSSLMODE", "disable"),
	}
	return u.String()
}
