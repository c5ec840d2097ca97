package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ext = ".mp3"

// Store keeps audio files as <uuid>.mp3 in one directory.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes data under a fresh id. The file appears atomically.
func (s *Store) Save(data []byte) (string, error) {
	id := uuid.NewString()
	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, id+ext)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save audio: %w", err)
	}
	return id, nil
}

// Path resolves id to an existing file. Ids that are not UUIDs never touch
// the filesystem, so "../" tricks end as ErrNotFound.
func (s *Store) Path(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSuffix(id, ext))
	if err != nil {
		return "", ErrNotFound
	}
	p := filepath.Join(s.Dir, u.String()+ext)
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return p, nil
}

func (s *Store) Exists(id string) bool {
	_, err := s.Path(id)
	return err == nil
}

// Sweep removes audio files last modified more than maxAge ago.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	n := 0
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ext) && !strings.HasPrefix(e.Name(), ".tmp-")) {
			continue
		}
		fi, err := e.Info()
		if err != nil || fi.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}
