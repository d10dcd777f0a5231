package translation_engine

import (
	"strings"
	"unicode"
)

// charsPerToken is the estimator ratio used by approxTokens.
const charsPerToken = 4

// chunk is one piece of a document sent to the model on its own.
//
// Pos:      zero-based position of the chunk inside the document.
// Text:     chunk content, one or more whole lines or part of a long line.
// Sep:      separator that followed Text in the source, "" for the last one.
// TokenCnt: approximate token count.
type chunk struct {
	Pos      int
	Text     string
	Sep      string
	TokenCnt int
}

// splitChunks cuts text into chunks of at most maxTokens approximate tokens.
// Lines are kept whole where possible; a single line over the limit is cut at
// a sentence end, then at whitespace, then hard. Joining every Text+Sep in
// order reproduces text exactly. maxTokens <= 0 disables splitting.
func splitChunks(text string, maxTokens int) []chunk {
	if maxTokens <= 0 || approxTokens(text) <= maxTokens {
		return []chunk{{Text: text, TokenCnt: approxTokens(text)}}
	}
	maxRunes := maxTokens * charsPerToken

	var (
		out    []chunk
		buf    []string
		tokSum int
	)

	emit := func(c chunk) {
		c.Pos = len(out)
		c.TokenCnt = approxTokens(c.Text)
		out = append(out, c)
	}

	// flush emits the buffered lines as one chunk.
	flush := func(sep string) {
		if len(buf) == 0 {
			return
		}
		emit(chunk{Text: strings.Join(buf, "\n"), Sep: sep})
		buf = buf[:0]
		tokSum = 0
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		last := i == len(lines)-1
		t := approxTokens(line)

		if t > maxTokens {
			flush("\n")
			pieces := splitLine(line, maxRunes)
			for j, p := range pieces {
				if j == len(pieces)-1 && !last {
					p.Sep = "\n"
				}
				emit(p)
			}
			continue
		}

		if len(buf) > 0 && tokSum+t > maxTokens {
			flush("\n")
		}
		buf = append(buf, line)
		tokSum += t
	}
	flush("")

	return out
}

// splitLine cuts one line into pieces of at most maxRunes runes.
func splitLine(line string, maxRunes int) []chunk {
	var out []chunk
	rest := []rune(line)
	for len(rest) > maxRunes {
		cut, skip := findCut(rest[:maxRunes])
		out = append(out, chunk{Text: string(rest[:cut]), Sep: string(rest[cut : cut+skip])})
		rest = rest[cut+skip:]
	}
	return append(out, chunk{Text: string(rest)})
}

// findCut returns where to end a piece inside window and how many separator
// runes follow the cut.
func findCut(window []rune) (cut, skip int) {
	for i := len(window) - 2; i > 0; i-- {
		switch window[i] {
		case '.', '!', '?':
			if unicode.IsSpace(window[i+1]) {
				return i + 1, 1
			}
		}
	}
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i, 1
		}
	}
	return len(window), 0
}

// approxTokens is a cheap token estimator (~4 chars ≈ 1 token).
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}
