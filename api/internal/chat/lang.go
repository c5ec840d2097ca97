package chat

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

type Lang int

const (
	Vietnamese Lang = iota
	English
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLang tells Vietnamese from English. Anything undecided counts as
// Vietnamese since that is what most kids type.
func DetectLang(text string) Lang {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Vietnamese).
			WithPreloadedLanguageModels().
			Build()
	})
	if language, exists := detector.DetectLanguageOf(text); exists && language == lingua.English {
		return English
	}
	return Vietnamese
}
