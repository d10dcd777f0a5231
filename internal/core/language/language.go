// Package language holds the closed set of languages the service translates
// between and the equivalence table used to reconcile free-text model output
// with a declared language.
package language

import (
	"fmt"
	"strings"
)

// Tag is a supported language, always one of the constants below.
type Tag string

const (
	English     Tag = "english"
	French      Tag = "french"
	Arabic      Tag = "arabic"
	Swahili     Tag = "swahili"
	Kinyarwanda Tag = "kinyarwanda"
)

// All lists the supported languages in display order.
var All = []Tag{English, French, Arabic, Swahili, Kinyarwanda}

var displayNames = map[Tag]string{
	English:     "English",
	French:      "French",
	Arabic:      "Arabic",
	Swahili:     "Swahili",
	Kinyarwanda: "Kinyarwanda",
}

// Parse lowercases and trims s and returns the matching Tag.
func Parse(s string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return t, nil
}

// Valid reports whether t is a member of the supported set.
func (t Tag) Valid() bool {
	_, ok := displayNames[t]
	return ok
}

// DisplayName returns the capitalised English name used in prompts and UI.
func (t Tag) DisplayName() string {
	if n, ok := displayNames[t]; ok {
		return n
	}
	return string(t)
}

func (t Tag) String() string { return string(t) }
