package translation_engine

import (
	"regexp"
	"strings"
)

var reasoningBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

const echoLabel = `(?:translated text|translation)(?:\s+(?:into|in|to)\s+\w+)?\s*:`

// echoRe matches any answer label at the very start. Only short detector
// answers are cleaned with it.
var echoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?` + echoLabel,
)

// echoLineRe matches a label that fills the whole first line, and
// preambleRe an inline one introduced by "here is". A bare
// "Translation: ..." on the first line of a document is content.
var (
	echoLineRe = regexp.MustCompile(
		`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+|your\s+)?` + echoLabel + `[ \t]*\n`,
	)
	preambleRe = regexp.MustCompile(
		`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?here(?:'s| is)\s+(?:the\s+|your\s+)?` + echoLabel,
	)
)

var outerQuotes = [][2]string{{`"`, `"`}, {"“", "”"}, {"«", "»"}, {"`", "`"}}

// cleanDetectorAnswer strips reasoning blocks, a leading answer label and a
// single pair of quotes wrapping the whole answer.
func cleanDetectorAnswer(text string) string {
	text = stripReasoning(text)
	if loc := echoRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	return strings.TrimSpace(trimOuterQuotes(strings.TrimSpace(text)))
}

// cleanTranslation strips what the model added around a translation of
// source. A label or wrapping quotes already present in source are kept.
func cleanTranslation(text, source string) string {
	text = stripReasoning(text)
	source = strings.TrimSpace(source)

	if !echoLineRe.MatchString(source+"\n") && !preambleRe.MatchString(source) {
		if loc := echoLineRe.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		} else if loc := preambleRe.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
		text = strings.TrimSpace(text)
	}
	if trimOuterQuotes(source) == source {
		text = trimOuterQuotes(text)
	}
	return strings.TrimSpace(text)
}

func stripReasoning(text string) string {
	return strings.TrimSpace(reasoningBlockRe.ReplaceAllString(text, ""))
}

// trimOuterQuotes removes a wrapping quote pair only when the quote does not
// also appear inside, so quoted passages in real content survive.
func trimOuterQuotes(s string) string {
	for _, q := range outerQuotes {
		if len(s) < len(q[0])+len(q[1]) || !strings.HasPrefix(s, q[0]) || !strings.HasSuffix(s, q[1]) {
			continue
		}
		inner := s[len(q[0]) : len(s)-len(q[1])]
		if strings.Contains(inner, q[0]) || strings.Contains(inner, q[1]) {
			continue
		}
		return inner
	}
	return s
}
