package llm

import (
	"regexp"
	"strings"

	"kid-english/api/internal/util"
)

const MaxReplyRunes = 600

var roleLabel = regexp.MustCompile(`(?im)^\s*(assistant|teacher|ai|bot|cô giáo|user|child)\s*:\s*`)

// Clean turns raw engine output into a single short chat reply.
// The echoed user message, if any, is dropped from the front.
func Clean(raw, userText string) string {
	s := util.StripCodeFences(raw)
	if u := strings.TrimSpace(userText); u != "" {
		s = strings.TrimPrefix(strings.TrimSpace(s), u)
	}
	s = roleLabel.ReplaceAllString(s, "")
	s = strings.NewReplacer("**", "", "__", "", "##", "").Replace(s)
	s = util.CollapseSpaces(s)
	return util.ClampSentences(s, MaxReplyRunes)
}
