package handle

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"kid-english/api/internal/chat"
)

const wsReadLimit = 64 << 10

// RegisterWS mounts the chat websocket. allowOrigin decides which browser
// origins may connect; nil accepts any.
func (h *Handle) RegisterWS(mux *http.ServeMux, allowOrigin func(origin string) bool) {
	up := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || allowOrigin == nil || allowOrigin(o)
		},
	}
	mux.HandleFunc("GET /ws/chat", func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(wsReadLimit)
		for {
			var req chat.Request
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[ws] read: %v", err)
				}
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
			reply := h.chat.Reply(ctx, req)
			cancel()
			if err := conn.WriteJSON(map[string]string{"reply": reply}); err != nil {
				return
			}
		}
	})
	log.Printf("WebSocket chat enabled at /ws/chat")
}
