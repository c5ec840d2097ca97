package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Synthesize(_ context.Context, text, lang string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("MP3" + lang + ":" + text), nil
}

type memIndex struct {
	mu     sync.Mutex
	rows   map[string]Record
	purged int
}

func (m *memIndex) FindAudio(_ context.Context, hash, engine string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[hash+engine]; ok {
		return r.FileID, nil
	}
	return "", nil
}

func (m *memIndex) RecordAudio(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]Record{}
	}
	m.rows[rec.Hash+rec.Engine] = rec
	return nil
}

func (m *memIndex) PurgeOlderThan(context.Context, time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged++
	return 0, nil
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "tts_audio"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSpeakWritesRetrievableFile(t *testing.T) {
	st := newStore(t)
	svc := NewService(&fakeEngine{}, st)

	id, err := svc.Speak(context.Background(), "  Hello, friend!  ")
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	p, err := st.Path(id)
	if err != nil {
		t.Fatalf("Path(%s): %v", id, err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "MP3en:Hello, friend!" {
		t.Fatalf("file = %q", b)
	}
}

func TestSpeakEmptyText(t *testing.T) {
	eng := &fakeEngine{}
	svc := NewService(eng, newStore(t))
	if _, err := svc.Speak(context.Background(), " \n\t"); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v", err)
	}
	if eng.calls != 0 {
		t.Fatal("engine called for empty text")
	}
}

func TestSpeakEngineError(t *testing.T) {
	svc := NewService(&fakeEngine{err: errors.New("429 too many requests")}, newStore(t))
	_, err := svc.Speak(context.Background(), "hi")
	if err == nil || errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v", err)
	}
}

func TestSpeakReusesIndexedFile(t *testing.T) {
	eng := &fakeEngine{}
	ix := &memIndex{}
	st := newStore(t)
	svc := NewService(eng, st, WithIndex(ix), WithLang("en"))

	a, err := svc.Speak(context.Background(), "I like cats.")
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Speak(context.Background(), "I like cats.")
	if err != nil {
		t.Fatal(err)
	}
	if a != b || eng.calls != 1 {
		t.Fatalf("ids %s/%s, engine calls %d", a, b, eng.calls)
	}

	// file swept away: synthesize again instead of returning a dead id
	p, _ := st.Path(a)
	os.Remove(p)
	c, err := svc.Speak(context.Background(), "I like cats.")
	if err != nil {
		t.Fatal(err)
	}
	if c == a || eng.calls != 2 {
		t.Fatalf("stale id reused: %s (calls %d)", c, eng.calls)
	}
}

func TestStorePathRejectsBadIDs(t *testing.T) {
	st := newStore(t)
	for _, id := range []string{"", "nope", "../etc/passwd", "123e4567-e89b-12d3-a456-426614174000"} {
		if _, err := st.Path(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Path(%q) err = %v", id, err)
		}
	}
}

func TestStorePathAcceptsExtension(t *testing.T) {
	st := newStore(t)
	id, err := st.Save([]byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Path(id + ".mp3"); err != nil {
		t.Fatalf("Path with extension: %v", err)
	}
}

func TestSweep(t *testing.T) {
	st := newStore(t)
	oldID, _ := st.Save([]byte("old"))
	newID, _ := st.Save([]byte("new"))
	oldPath, _ := st.Path(oldID)
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	ix := &memIndex{}
	svc := NewService(&fakeEngine{}, st, WithIndex(ix), WithTTL(time.Hour))
	svc.sweep(context.Background())

	if st.Exists(oldID) {
		t.Fatal("old file survived")
	}
	if !st.Exists(newID) {
		t.Fatal("new file removed")
	}
	if ix.purged != 1 {
		t.Fatalf("index purged %d times", ix.purged)
	}
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	svc := NewService(&fakeEngine{}, newStore(t), WithTTL(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestDurationRejectsGarbage(t *testing.T) {
	if _, err := Duration([]byte("not an mp3")); err == nil {
		t.Fatal("expected error")
	}
}

func TestKeyDependsOnEngineAndLang(t *testing.T) {
	if Key("en", "a", "hi") == Key("en", "b", "hi") || Key("en", "a", "hi") == Key("vi", "a", "hi") {
		t.Fatal("key collision")
	}
}
