package lang

import "strings"

// Language is one of the two supported target languages. The tutor
// coaches the learner in this language; explanations stay in English.
type Language string

const (
	// Spanish is the primary target language and the fallback for any
	// unrecognized selector.
	Spanish Language = "spanish"
	// French is the secondary target language.
	French Language = "french"
)

// Normalize maps a free-form selector onto the closed language set.
// Values equal to "fr", prefixed "fr-", or containing "french" select
// French; everything else, including the empty string, is Spanish.
func Normalize(raw string) Language {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "fr" || strings.HasPrefix(value, "fr-") || strings.Contains(value, "french") {
		return French
	}
	return Spanish
}

// DisplayName returns the human-readable language name used in prompts.
func (l Language) DisplayName() string {
	if l == French {
		return "French"
	}
	return "Spanish"
}
