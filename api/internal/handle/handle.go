package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kid-english/api/internal/chat"
	"kid-english/api/internal/suggest"
	"kid-english/api/internal/tts"
)

const maxBody = 1 << 20

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Suggester *suggest.Suggester
	TTS       *tts.Service
	Vocab     chat.Lookuper
	Chat      *chat.Responder
	// PublicBaseURL prefixes audio_url; empty means derive it from the request.
	PublicBaseURL string
	// DB is optional; /healthz pings it when set.
	DB Pinger
}

type Handle struct {
	suggest *suggest.Suggester
	tts     *tts.Service
	vocab   chat.Lookuper
	chat    *chat.Responder
	baseURL string
	db      Pinger
}

func New(d Deps) *Handle {
	return &Handle{
		suggest: d.Suggester,
		tts:     d.TTS,
		vocab:   d.Vocab,
		chat:    d.Chat,
		baseURL: strings.TrimRight(d.PublicBaseURL, "/"),
		db:      d.DB,
	}
}

// Register mounts every JSON endpoint on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("POST /suggest", h.Suggest)
	mux.HandleFunc("POST /tts", h.TTS)
	mux.HandleFunc("GET /tts/{file_id}", h.Audio)
	mux.HandleFunc("POST /grade", h.Grade)
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("POST /api/vocabulary", h.Vocabulary)
	mux.HandleFunc("GET /api/topics", h.Topics)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("bad json: %v", err))
	return false
}

func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handle) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
