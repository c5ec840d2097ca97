package handle

import (
	"net/http"

	"kid-english/api/internal/chat"
)

func (h *Handle) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": h.chat.Reply(r.Context(), req)})
}

func (h *Handle) Vocabulary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.vocab.Lookup(r.Context(), req.Word))
}
