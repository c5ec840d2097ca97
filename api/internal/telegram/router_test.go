package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kid-english/api/internal/chat"
	"kid-english/api/internal/content"
	"kid-english/api/internal/llm"
	"kid-english/api/internal/suggest"
	"kid-english/api/internal/tts"
	"kid-english/api/internal/vocab"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	m, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("last message is %T", f.sent[len(f.sent)-1])
	}
	return m.Text
}

type fakeEngine struct{ name, out string }

func (f fakeEngine) Name() string     { return f.name }
func (f fakeEngine) GetModel() string { return f.name + "-1" }
func (f fakeEngine) Generate(context.Context, llm.Prompt) (string, error) {
	return f.out, nil
}

type fakeTTS struct{}

func (fakeTTS) Name() string { return "fake" }
func (fakeTTS) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	return []byte(text), nil
}

func newRouter(t *testing.T) (*Router, *fakeBot) {
	t.Helper()
	tb := content.Default()
	st, err := tts.NewStore(filepath.Join(t.TempDir(), "audio"))
	if err != nil {
		t.Fatal(err)
	}
	voc := vocab.New(tb, nil, nil)
	engines := &llm.Engines{OpenAI: fakeEngine{"gpt", "Dragons are big! (Rồng rất to!)"}}
	bot := &fakeBot{}
	return &Router{
		Bot:        bot,
		Engines:    engines,
		EngManager: llm.NewManager(nil),
		Suggester:  suggest.New(tb),
		Vocab:      voc,
		Chat:       chat.New(tb, voc, chat.WithLangDetector(func(string) chat.Lang { return chat.Vietnamese })),
		TTS:        tts.NewService(fakeTTS{}, st),
	}, bot
}

func command(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i > 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func text(chatID int64, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func TestCommands(t *testing.T) {
	r, bot := newRouter(t)
	tests := []struct {
		in   string
		want string
	}{
		{"/start", "/suggest"},
		{"/suggest con mèo", "I like cats."},
		{"/vocab apple", "Quả táo"},
		{"/vocab aple", `"apple"`},
		{"/grade I like cats | i like cats", "Điểm: 100/100"},
		{"/grade no separator", "Dùng: /grade"},
		{"/topics", "animals"},
		{"/engine", "offline"},
		{"/engine gemini", "Chưa cấu hình gemini"},
		{"/unknown", "/help"},
	}
	for _, tt := range tests {
		r.HandleUpdate(command(7, tt.in))
		if got := bot.lastText(t); !strings.Contains(got, tt.want) {
			t.Errorf("%s -> %q, want it to contain %q", tt.in, got, tt.want)
		}
	}
}

func TestHelpUsesPlainSeparators(t *testing.T) {
	r, bot := newRouter(t)
	r.HandleUpdate(command(7, "/help"))
	got := bot.lastText(t)
	if strings.Contains(got, "\u2014") {
		t.Fatalf("help text has em-dash separators: %q", got)
	}
	if !strings.Contains(got, "/vocab <word> - tra từ vựng") {
		t.Fatalf("help = %q", got)
	}
}

func TestEngineSwitchIsPerChat(t *testing.T) {
	r, bot := newRouter(t)

	r.HandleUpdate(text(1, "tell me about dragons please"))
	offline := bot.lastText(t)
	if !contains(content.Default().CannedVI, offline) {
		t.Fatalf("offline reply = %q", offline)
	}

	r.HandleUpdate(command(1, "/engine gpt"))
	if got := bot.lastText(t); !strings.Contains(got, "gpt (gpt-1)") {
		t.Fatalf("switch reply = %q", got)
	}
	r.HandleUpdate(text(1, "tell me about dragons please"))
	if got := bot.lastText(t); got != "Dragons are big! (Rồng rất to!)" {
		t.Fatalf("engine reply = %q", got)
	}

	r.HandleUpdate(text(2, "tell me about dragons please"))
	if got := bot.lastText(t); !contains(content.Default().CannedVI, got) {
		t.Fatalf("other chat used the override: %q", got)
	}

	r.HandleUpdate(command(1, "/engine offline"))
	r.HandleUpdate(text(1, "tell me about dragons please"))
	if got := bot.lastText(t); !contains(content.Default().CannedVI, got) {
		t.Fatalf("offline switch ignored: %q", got)
	}
}

func TestSaySendsAudio(t *testing.T) {
	r, bot := newRouter(t)
	r.HandleUpdate(command(3, "/say I like cats."))
	bot.mu.Lock()
	last := bot.sent[len(bot.sent)-1]
	bot.mu.Unlock()
	a, ok := last.(tgbotapi.AudioConfig)
	if !ok {
		t.Fatalf("sent %T, want AudioConfig", last)
	}
	if a.Caption != "I like cats." {
		t.Fatalf("caption = %q", a.Caption)
	}

	r.HandleUpdate(command(3, "/say"))
	if got := bot.lastText(t); !strings.HasPrefix(got, "Dùng: /say") {
		t.Fatalf("empty /say -> %q", got)
	}
}

func TestLongRepliesAreClamped(t *testing.T) {
	r, bot := newRouter(t)
	r.send(9, strings.Repeat("á", maxMessage+50))
	if got := bot.lastText(t); len([]rune(got)) != maxMessage+1 {
		t.Fatalf("len = %d", len([]rune(got)))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
