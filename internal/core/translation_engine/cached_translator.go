package translation_engine

import (
	"context"
	"log"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
)

var _ core.Translator = (*CachedTranslator)(nil)

// CachedTranslator consults a translation memory before calling next and
// records fresh results. Memory failures are logged and otherwise ignored.
type CachedTranslator struct {
	next   core.Translator
	memory core.TranslationMemory
}

// NewCachedTranslator returns next unchanged when memory is nil.
func NewCachedTranslator(next core.Translator, memory core.TranslationMemory) core.Translator {
	if memory == nil {
		return next
	}
	return &CachedTranslator{next: next, memory: memory}
}

func (c *CachedTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	cached, ok, err := c.memory.Lookup(ctx, text, source, target)
	if err != nil {
		log.Printf("CachedTranslator: lookup failed: %v", err)
	} else if ok {
		log.Printf("CachedTranslator: hit for %s -> %s (%d bytes)", source, target, len(text))
		return cached, nil
	}

	translated, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}

	if err := c.memory.Save(ctx, text, source, target, translated); err != nil {
		log.Printf("CachedTranslator: save failed: %v", err)
	}
	return translated, nil
}
