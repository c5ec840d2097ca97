package tts

import (
	"context"
	"log"
	"time"
)

// RunJanitor expires old audio every interval until ctx is done.
// A zero TTL disables expiry.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	n, err := s.store.Sweep(s.ttl)
	if err != nil {
		log.Printf("[tts] sweep: %v", err)
	} else if n > 0 {
		log.Printf("[tts] sweep: removed %d files older than %s", n, s.ttl)
	}
	if s.index == nil {
		return
	}
	if rows, err := s.index.PurgeOlderThan(ctx, s.ttl); err != nil {
		log.Printf("[tts] purge index: %v", err)
	} else if rows > 0 {
		log.Printf("[tts] purge index: %d rows", rows)
	}
}
