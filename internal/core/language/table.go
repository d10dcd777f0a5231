package language

import (
	"strings"
	"unicode"

	xlang "golang.org/x/text/language"
)

// defaultAliases maps every supported tag to the spellings a model is likely
// to answer with: ISO 639 codes and endonyms.
var defaultAliases = map[Tag][]string{
	English:     {"en", "eng", "anglais", "kiingereza", "icyongereza"},
	French:      {"fr", "fra", "fre", "français", "francais", "kifaransa", "igifaransa"},
	Arabic:      {"ar", "ara", "العربية", "عربي", "arabe", "kiarabu", "icyarabu"},
	Swahili:     {"sw", "swa", "kiswahili", "swahili language", "igiswahili"},
	Kinyarwanda: {"rw", "kin", "ikinyarwanda", "rwanda", "kinyarwandan"},
}

var baseCodes = map[Tag]string{
	English:     "en",
	French:      "fr",
	Arabic:      "ar",
	Swahili:     "sw",
	Kinyarwanda: "rw",
}

// Table resolves detector output to a Tag. Lookups go through the canonical
// name, the display name, the alias list and finally BCP 47 parsing, where any
// tag sharing the base language matches (fr-CA resolves to French).
type Table struct {
	aliases map[string]Tag
	bases   map[xlang.Base]Tag
}

// DefaultTable returns the built-in equivalence table.
func DefaultTable() *Table {
	return NewTable(nil)
}

// NewTable builds the default table extended with extra aliases per tag.
// Aliases for tags outside the supported set are ignored.
func NewTable(extra map[Tag][]string) *Table {
	t := &Table{
		aliases: make(map[string]Tag),
		bases:   make(map[xlang.Base]Tag),
	}
	for _, tag := range All {
		t.add(tag, string(tag))
		t.add(tag, tag.DisplayName())
		for _, a := range defaultAliases[tag] {
			t.add(tag, a)
		}
		for _, a := range extra[tag] {
			t.add(tag, a)
		}
		t.bases[xlang.MustParseBase(baseCodes[tag])] = tag
	}
	return t
}

func (t *Table) add(tag Tag, alias string) {
	if key := normalize(alias); key != "" {
		t.aliases[key] = tag
	}
}

// Resolve maps a free-text language token to a supported Tag.
func (t *Table) Resolve(token string) (Tag, bool) {
	key := normalize(token)
	if key == "" {
		return "", false
	}
	if tag, ok := t.aliases[key]; ok {
		return tag, true
	}
	parsed, err := xlang.Parse(key)
	if err != nil {
		return "", false
	}
	base, conf := parsed.Base()
	if conf == xlang.No {
		return "", false
	}
	tag, ok := t.bases[base]
	return tag, ok
}

// normalize lowercases, trims and strips the punctuation models tend to wrap
// a one-word answer in ("French.", "**french**", `"fr"`).
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
	return strings.Join(strings.Fields(s), " ")
}

// Code returns the two-letter ISO 639-1 code of t, or "" for an unknown tag.
func (t Tag) Code() string {
	return baseCodes[t]
}
