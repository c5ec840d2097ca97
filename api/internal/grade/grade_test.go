package grade

import (
	"strings"
	"testing"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantScore int
		wantEn    string
	}{
		{
			name:      "identical",
			req:       Request{Expected: "I like cats.", Answer: "i like CATS"},
			wantScore: 100,
			wantEn:    "Great job!",
		},
		{
			name:      "empty answer",
			req:       Request{Expected: "I like cats.", Answer: "   "},
			wantScore: 0,
			wantEn:    "Please type your English sentence",
		},
		{
			name:      "half",
			req:       Request{Expected: "The dog runs fast", Answer: "the dog sleeps"},
			wantScore: 50,
			wantEn:    "Nice try!",
		},
		{
			name:      "two of three rounds up",
			req:       Request{Expected: "I love apples", Answer: "I love bananas"},
			wantScore: 67,
			wantEn:    "Nice try!",
		},
		{
			name:      "no overlap",
			req:       Request{Expected: "Good morning", Answer: "bye"},
			wantScore: 0,
			wantEn:    "Let's practice again.",
		},
		{
			name:      "expected without words",
			req:       Request{Expected: "123 !!", Answer: "anything"},
			wantScore: 0,
			wantEn:    "Let's practice again.",
		},
		{
			name:      "word order is ignored",
			req:       Request{Expected: "my family loves me", Answer: "me loves family my"},
			wantScore: 100,
			wantEn:    "Great job!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(tt.req)
			if got.Score != tt.wantScore {
				t.Fatalf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if !strings.HasPrefix(got.CommentEn, tt.wantEn) {
				t.Fatalf("commentEn = %q, want prefix %q", got.CommentEn, tt.wantEn)
			}
			if got.CommentVi == "" {
				t.Fatal("commentVi is empty")
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", "a a a a"},
		{"don't stop", "DON'T stop me now"},
		{"Xin chào", "hello"},
		{"one two three four five six seven", "seven"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		if s < 0 || s > 100 {
			t.Errorf("Score(%q, %q) = %d out of range", p[0], p[1], s)
		}
	}
}

func TestWords(t *testing.T) {
	w := Words("Don't STOP, 'quoted' words!")
	for _, want := range []string{"don't", "stop", "quoted", "words"} {
		if _, ok := w[want]; !ok {
			t.Errorf("missing %q in %v", want, w)
		}
	}
	if len(w) != 4 {
		t.Errorf("len = %d, want 4: %v", len(w), w)
	}
}

func TestCommentTiers(t *testing.T) {
	cases := map[int]string{100: "Great job!", 80: "Great job!", 79: "Nice try!", 50: "Nice try!", 49: "Let's practice", 0: "Let's practice"}
	for score, prefix := range cases {
		en, _ := Comment(score)
		if !strings.HasPrefix(en, prefix) {
			t.Errorf("Comment(%d) = %q", score, en)
		}
	}
}
