package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"kid-english/api/internal/grade"
	"kid-english/api/internal/suggest"
	"kid-english/api/internal/tts"
)

const helpText = `Chào em! Cô là trợ lý tiếng Anh. Hello! I'm your English helper.

/suggest <câu tiếng Việt> - gợi ý câu tiếng Anh
/vocab <word> - tra từ vựng
/say <text> - nghe đọc tiếng Anh
/grade <câu mẫu> | <câu của em> - chấm điểm câu
/topics - các chủ đề
/engine [gemini|gpt|hf|offline] - chọn cô giáo AI

Hoặc cứ nhắn tin để trò chuyện với cô nhé!`

func (r *Router) HandleCommand(ctx context.Context, cid int64, cmd, args string) {
	switch strings.ToLower(cmd) {
	case "start", "help":
		r.send(cid, helpText)
	case "suggest":
		r.send(cid, r.Suggester.Suggest(suggest.Request{Vietnamese: args, Topic: args}))
	case "topics":
		r.send(cid, "Topics: "+strings.Join(r.Suggester.Topics(), ", ")+
			"\nLevels: "+strings.Join(r.Suggester.Levels(), ", "))
	case "vocab":
		r.vocab(ctx, cid, args)
	case "say":
		r.say(ctx, cid, args)
	case "grade":
		r.grade(cid, args)
	case "engine":
		r.engine(cid, args)
	default:
		r.send(cid, "Cô chưa biết lệnh này. Gõ /help nhé!")
	}
}

func (r *Router) vocab(ctx context.Context, cid int64, word string) {
	if word == "" {
		r.send(cid, "Dùng: /vocab apple")
		return
	}
	e := r.Vocab.Lookup(ctx, word)
	if !e.Found() {
		msg := fmt.Sprintf("%s: %s", e.Word, e.Meaning)
		if e.DidYouMean != "" {
			msg += fmt.Sprintf("\nEm có muốn tra \"%s\" không?", e.DidYouMean)
		}
		r.send(cid, msg)
		return
	}
	var b strings.Builder
	b.WriteString("📘 " + e.Word)
	if e.Phonetic != "" {
		b.WriteString(" " + e.Phonetic)
	}
	b.WriteString("\n" + e.Meaning)
	if e.Example != "" {
		b.WriteString("\nExample: " + e.Example)
	}
	r.send(cid, b.String())
}

func (r *Router) say(ctx context.Context, cid int64, text string) {
	id, err := r.TTS.Speak(ctx, text)
	if errors.Is(err, tts.ErrEmptyText) {
		r.send(cid, "Dùng: /say I like cats.")
		return
	}
	if err != nil {
		log.Printf("[telegram] tts for %d: %v", cid, err)
		r.send(cid, "Cô chưa đọc được câu này, em thử lại sau nhé!")
		return
	}
	p, err := r.TTS.Store().Path(id)
	if err == nil {
		err = r.sendAudio(cid, p, text)
	}
	if err != nil {
		log.Printf("[telegram] send audio to %d: %v", cid, err)
		r.send(cid, "Cô chưa gửi được file âm thanh, em thử lại sau nhé!")
	}
}

func (r *Router) grade(cid int64, args string) {
	expected, answer, ok := strings.Cut(args, "|")
	if !ok {
		r.send(cid, "Dùng: /grade I like cats | i like cat")
		return
	}
	res := grade.Grade(grade.Request{Expected: strings.TrimSpace(expected), Answer: strings.TrimSpace(answer)})
	r.send(cid, fmt.Sprintf("Điểm: %d/100\n%s\n%s", res.Score, res.CommentEn, res.CommentVi))
}

func (r *Router) engine(cid int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		r.send(cid, "Cô giáo AI hiện tại: "+engineLabel(r.EngManager.Get(cid))+
			"\nDùng: /engine {gemini|gpt|hf|offline}")
		return
	}
	name := strings.ToLower(fields[0])
	if name == "offline" {
		r.EngManager.Set(cid, nil)
		r.send(cid, "✅ Đã chuyển sang chế độ offline.")
		return
	}
	eng, ok := r.Engines.ByName(name)
	if !ok {
		avail := append(r.Engines.Available(), "offline")
		r.send(cid, "❌ Chưa cấu hình "+name+". Có thể dùng: "+strings.Join(avail, " | "))
		return
	}
	r.EngManager.Set(cid, eng)
	r.send(cid, "✅ Cô giáo AI: "+engineLabel(eng))
}
