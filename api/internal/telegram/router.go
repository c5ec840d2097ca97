package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kid-english/api/internal/chat"
	"kid-english/api/internal/llm"
	"kid-english/api/internal/suggest"
	"kid-english/api/internal/tts"
	"kid-english/api/internal/util"
)

// Sender is the part of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Router struct {
	Bot        Sender
	Engines    *llm.Engines
	EngManager *llm.Manager
	Suggester  *suggest.Suggester
	Vocab      chat.Lookuper
	Chat       *chat.Responder
	TTS        *tts.Service

	// Timeout bounds the work done for one update.
	Timeout time.Duration
}

const maxMessage = 3900

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cid := upd.Message.Chat.ID
	if upd.Message.IsCommand() {
		r.HandleCommand(ctx, cid, upd.Message.Command(), strings.TrimSpace(upd.Message.CommandArguments()))
		return
	}
	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		r.send(cid, "Em hãy gõ tin nhắn bằng chữ nhé! Please send me a text message.")
		return
	}
	reply := r.Chat.ReplyWith(ctx, r.EngManager.Get(cid), chat.Request{Message: text})
	r.send(cid, reply)
}

func (r *Router) send(chatID int64, text string) {
	if utf8.RuneCountInString(text) > maxMessage {
		text = util.ClampRunes(text, maxMessage) + "…"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("[telegram] send to %d: %v", chatID, err)
	}
}

func (r *Router) sendAudio(chatID int64, path, caption string) error {
	a := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	a.Caption = caption
	_, err := r.Bot.Send(a)
	return err
}

func engineLabel(e llm.Engine) string {
	if e == nil {
		return "offline"
	}
	return fmt.Sprintf("%s (%s)", e.Name(), e.GetModel())
}
