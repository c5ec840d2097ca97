package handle

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"kid-english/api/internal/tts"
)

func (h *Handle) TTS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, err := h.tts.Speak(r.Context(), req.Text)
	if errors.Is(err, tts.ErrEmptyText) {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if err != nil {
		log.Printf("[tts] synthesize: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to synthesize audio: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"audio_url": h.publicBase(r) + "/tts/" + id})
}

func (h *Handle) Audio(w http.ResponseWriter, r *http.Request) {
	p, err := h.tts.Store().Path(r.PathValue("file_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, p)
}

// publicBase is PUBLIC_BASE_URL, or scheme://host of the incoming request.
func (h *Handle) publicBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	host := r.Host
	if fh := r.Header.Get("X-Forwarded-Host"); fh != "" {
		host = strings.TrimSpace(strings.Split(fh, ",")[0])
	}
	return scheme + "://" + host
}
