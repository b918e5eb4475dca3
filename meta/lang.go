package meta

import (
	"context"
	"sync"
)

// DefaultLang is used when the request carries no Accept-Language.
const DefaultLang = "en"

var (
	langMu      sync.RWMutex                                     //nolint:gochecknoglobals // guards langMap
	langMap     = map[string]map[string]string{"en": enMessages} //nolint:gochecknoglobals // error code translations
	defaultLang = DefaultLang                                    //nolint:gochecknoglobals // fallback language
)

// SetLanguageMap merges m into the translation table and sets the default language.
func SetLanguageMap(m map[string]map[string]string, defLang string) {
	langMu.Lock()
	defer langMu.Unlock()

	for lang, texts := range m {
		merged := make(map[string]string, len(langMap[lang])+len(texts))
		for k, v := range langMap[lang] {
			merged[k] = v
		}
		for k, v := range texts {
			merged[k] = v
		}
		langMap[lang] = merged
	}
	if defLang != "" {
		defaultLang = defLang
	}
}

// Tr returns the translated text for the given language.
// Falls back to the default language if the requested language is not found.
func Tr(text, lang string) string {
	langMu.RLock()
	defer langMu.RUnlock()

	if m, ok := langMap[lang]; ok {
		if res := m[text]; res != "" {
			return res
		}
	}
	if res := langMap[defaultLang][text]; res != "" {
		return res
	}
	return "[untranslated]: " + text
}

// TrCtx returns the translated text using the language from the request context.
func TrCtx(ctx context.Context, text string) string {
	return Tr(text, Find(ctx, AcceptLanguage))
}
