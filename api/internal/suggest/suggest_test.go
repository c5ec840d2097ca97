package suggest

import (
	"slices"
	"testing"

	"kid-english/api/internal/content"
)

func first(int) int { return 0 }

func TestSuggestRules(t *testing.T) {
	s := New(content.Default(), WithPicker(first))

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"cat", Request{Vietnamese: "Tôi thích con mèo"}, "I like cats."},
		{"cat wins over topic", Request{Vietnamese: "mèo", Topic: "colors"}, "I like cats."},
		{"dog", Request{Vietnamese: "con chó"}, "I like dogs."},
		{"red apple", Request{Vietnamese: "quả táo"}, "The apple is red."},
		{"count", Request{Vietnamese: "em biết đếm"}, "I can count from one to ten."},
		{"chao shadows xin chao", Request{Vietnamese: "xin chào bạn"}, "Hello! Nice to meet you."},
		{"chao", Request{Vietnamese: "chào bạn"}, "Hello! Nice to meet you."},
		{"green", Request{Vietnamese: "lá màu xanh"}, "The leaf is green."},
		{"family", Request{Vietnamese: "gia đình em"}, "My family loves me very much."},
		{"decomposed diacritics", Request{Vietnamese: "con me\u0300o"}, "I like cats."},
		{"topic", Request{Vietnamese: "abc", Topic: "Animals"}, "The brown dog runs fast."},
		{"topic substring", Request{Topic: "my family words"}, "This is my little sister."},
		{"level", Request{Level: "grade2"}, "My brother likes to ride his bike."},
		{"template", Request{Vietnamese: "xyz"}, "This is a simple English sentence."},
		{"everything empty", Request{}, "This is a simple English sentence."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Suggest(tt.req); got != tt.want {
				t.Fatalf("Suggest(%+v) = %q, want %q", tt.req, got, tt.want)
			}
		})
	}
}

func TestSuggestRandomStaysInTable(t *testing.T) {
	s := New(content.Default())
	topic := content.Default().Topics[0]
	for range 50 {
		got := s.Suggest(Request{Topic: topic.Name})
		if !slices.Contains(topic.Sentences, got) {
			t.Fatalf("%q not in topic %q", got, topic.Name)
		}
	}
}

func TestSuggestBadPickerFallsBackToFirst(t *testing.T) {
	s := New(content.Default(), WithPicker(func(n int) int { return n + 3 }))
	if got := s.Suggest(Request{}); got != content.Default().Templates[0] {
		t.Fatalf("got %q", got)
	}
}

func TestTopicsAndLevels(t *testing.T) {
	s := New(content.Default())
	if !slices.Contains(s.Topics(), "animals") {
		t.Fatalf("topics = %v", s.Topics())
	}
	if !slices.Equal(s.Levels(), []string{"grade1", "grade2"}) {
		t.Fatalf("levels = %v", s.Levels())
	}
}
