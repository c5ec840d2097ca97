package handle

import (
	"net/http"

	"kid-english/api/internal/grade"
	"kid-english/api/internal/suggest"
)

func (h *Handle) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggest.Request
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sentence": h.suggest.Suggest(req)})
}

func (h *Handle) Topics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"topics": h.suggest.Topics(),
		"levels": h.suggest.Levels(),
	})
}

func (h *Handle) Grade(w http.ResponseWriter, r *http.Request) {
	var req grade.Request
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, grade.Grade(req))
}
