// Package grade scores a typed English sentence against a model sentence by
// word overlap and picks a bilingual comment for the score.
package grade

import (
	"math"
	"regexp"
	"strings"
)

type Request struct {
	Question string `json:"question"`
	Expected string `json:"expected"`
	Answer   string `json:"answer"`
}

type Result struct {
	Score     int    `json:"score"`
	CommentEn string `json:"commentEn"`
	CommentVi string `json:"commentVi"`
}

const (
	emptyEn = "Please type your English sentence so I can grade it."
	emptyVi = "Hãy nhập câu tiếng Anh của em để cô giáo AI chấm điểm nhé!"
)

type tier struct {
	min int
	en  string
	vi  string
}

// tiers are checked top-down; the last one catches every score.
var tiers = []tier{
	{80, "Great job! Your sentence matches the model answer.", "Rất tốt! Câu của em gần giống câu mẫu rồi."},
	{50, "Nice try! There are a few differences. Review the model sentence.", "Cố lên! Có vài chỗ khác câu mẫu, hãy xem lại câu gợi ý nhé."},
	{0, "Let's practice again. Try to follow the model sentence more closely.", "Mình luyện lại nhé. Hãy cố bám sát câu mẫu hơn."},
}

var wordRe = regexp.MustCompile(`[a-z]+(?:'[a-z]+)*`)

// Grade never fails: bad input degrades to a zero score.
func Grade(req Request) Result {
	if strings.TrimSpace(req.Answer) == "" {
		return Result{Score: 0, CommentEn: emptyEn, CommentVi: emptyVi}
	}
	score := Score(req.Expected, req.Answer)
	en, vi := Comment(score)
	return Result{Score: score, CommentEn: en, CommentVi: vi}
}

// Score is round(100 * |expected ∩ answer| / |expected|) over lowercase word sets.
func Score(expected, answer string) int {
	exp := Words(expected)
	if len(exp) == 0 {
		return 0
	}
	ans := Words(answer)
	hit := 0
	for w := range exp {
		if _, ok := ans[w]; ok {
			hit++
		}
	}
	s := int(math.Round(100 * float64(hit) / float64(len(exp))))
	return min(max(s, 0), 100)
}

// Comment returns the English and Vietnamese comment for a score.
func Comment(score int) (en, vi string) {
	for _, t := range tiers {
		if score >= t.min {
			return t.en, t.vi
		}
	}
	last := tiers[len(tiers)-1]
	return last.en, last.vi
}

// Words returns the set of lowercase alphabetic words in s. Apostrophes are
// kept inside a word ("don't") and dropped at its edges.
func Words(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		out[w] = struct{}{}
	}
	return out
}
