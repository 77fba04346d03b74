// Package i18n holds the bot's user-facing copy, keyed by dotted message ids.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Catalog resolves message ids for one locale.
type Catalog struct {
	locale  language.Tag
	strings map[string]string
}

var (
	supported = []language.Tag{language.AmericanEnglish, language.LatinAmericanSpanish}
	matcher   = language.NewMatcher(supported)
	tables    = map[language.Tag]map[string]string{
		language.AmericanEnglish:      enUS,
		language.LatinAmericanSpanish: esLA,
	}
)

// New picks the closest supported catalog for locale ("en_US", "es-419",
// "fr"). Unknown locales get American English.
func New(locale string) *Catalog {
	tag, _ := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	_, idx, _ := matcher.Match(tag)
	best := supported[idx]
	return &Catalog{locale: best, strings: tables[best]}
}

// Locale reports the tag the catalog resolved to.
func (c *Catalog) Locale() string {
	return c.locale.String()
}

// T returns the copy for key with {{name}} placeholders replaced from args,
// given as name/value pairs. Missing keys fall back to English, then to the
// key itself.
func (c *Catalog) T(key string, args ...string) string {
	s, ok := c.strings[key]
	if !ok {
		if s, ok = enUS[key]; !ok {
			return key
		}
	}
	if len(args) < 2 {
		return s
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{{"+args[i]+"}}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
