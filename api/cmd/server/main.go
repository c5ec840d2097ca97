package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kid-english/api/internal/app"
	"kid-english/api/internal/config"
	"kid-english/api/internal/handle"
	"kid-english/api/internal/httpserver"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	h := handle.New(handle.Deps{
		Suggester:     a.Suggester,
		TTS:           a.TTS,
		Vocab:         a.Vocab,
		Chat:          a.Chat,
		PublicBaseURL: cfg.PublicBaseURL,
		DB:            pinger(a),
	})

	mux := http.NewServeMux()
	h.Register(mux)
	if cfg.WSEnabled {
		h.RegisterWS(mux, httpserver.OriginChecker(cfg.CORSOrigins))
	}

	go a.TTS.RunJanitor(ctx, cfg.TTSSweepInterval)

	var root http.Handler = mux
	root = httpserver.CORS(cfg.CORSOrigins, root)
	root = httpserver.AccessLog(root)

	if err := httpserver.Run(ctx, ":"+cfg.Port, root); err != nil {
		log.Fatalf("http: %v", err)
	}
}

// pinger avoids handing a typed nil *sql.DB to the health check.
func pinger(a *app.App) handle.Pinger {
	if a.DB == nil {
		return nil
	}
	return a.DB
}
