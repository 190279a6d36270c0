// Package prompt renders the fixed tutoring persona instructions. The
// template is static apart from the target-language name; correctness
// is exact round-tripping for each supported language.
package prompt

import (
	"embed"
	"fmt"
	"strings"

	"github.com/mirelo-app/tutor-server/internal/lang"
)

//go:embed templates/*.yaml
var templatesFS embed.FS

const tutorTemplatePath = "templates/tutor.yaml"

// Library holds the loaded tutor templates, rendered per language at
// load time so request handling is a map lookup.
type Library struct {
	systemByLanguage map[lang.Language]string
}

// NewLibrary loads and renders the embedded templates, failing fast on
// any template error.
func NewLibrary() (*Library, error) {
	mapping, err := LoadYAMLMapping(templatesFS, tutorTemplatePath)
	if err != nil {
		return nil, err
	}

	template, err := Field(mapping, "system")
	if err != nil {
		return nil, err
	}

	systems := make(map[lang.Language]string, 2)
	for _, language := range []lang.Language{lang.Spanish, lang.French} {
		rendered, err := FormatTemplate(template, map[string]string{
			"language": language.DisplayName(),
		})
		if err != nil {
			return nil, fmt.Errorf("render tutor prompt for %s: %w", language, err)
		}
		systems[language] = strings.TrimSpace(rendered)
	}

	return &Library{systemByLanguage: systems}, nil
}

// System returns the system instruction for the given target language.
func (l *Library) System(language lang.Language) (string, error) {
	if l == nil {
		return "", fmt.Errorf("prompt library not initialized")
	}
	system, ok := l.systemByLanguage[language]
	if !ok {
		return "", fmt.Errorf("no tutor prompt for language: %s", language)
	}
	return system, nil
}
