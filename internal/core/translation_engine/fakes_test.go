package translation_engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/models"
)

// memStore is an in-memory core.FileStore that counts every call.
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	calls   int
	saveErr error
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Save(_ context.Context, name string, r io.Reader) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = b
	return nil
}

func (s *memStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	b, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, core.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	delete(s.files, name)
	return nil
}

func (s *memStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	_, ok := s.files[name]
	return ok, nil
}

func (s *memStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for k := range s.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeLLM answers every prompt through fn and records the user prompts.
type fakeLLM struct {
	mu      sync.Mutex
	fn      func(ctx context.Context, system, user string) (string, error)
	systems []string
	users   []string
}

func (f *fakeLLM) Generate(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	f.mu.Unlock()
	return f.fn(ctx, system, user)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func staticLLM(answer string) *fakeLLM {
	return &fakeLLM{fn: func(context.Context, string, string) (string, error) { return answer, nil }}
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(_ context.Context, r io.Reader, _ models.Format) (string, error) {
	f.calls++
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return f.text, f.err
}

type fakeDetector struct {
	answer string
	err    error
	block  bool
}

func (f *fakeDetector) Detect(ctx context.Context, _ string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

type fakeTranslator struct {
	fn    func(text string, source, target language.Tag) (string, error)
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text string, source, target language.Tag) (string, error) {
	f.calls++
	return f.fn(text, source, target)
}

type fakeRenderer struct {
	err  error
	got  string
	ext  string
	data string
}

func (f *fakeRenderer) Render(text string, w io.Writer) error {
	f.got = text
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.data)
	return err
}

func (f *fakeRenderer) Ext() string {
	if f.ext == "" {
		return "pdf"
	}
	return f.ext
}

// fakeMemory is an in-memory core.TranslationMemory.
type fakeMemory struct {
	entries   map[string]string
	lookupErr error
	saveErr   error
	saves     int
}

func newFakeMemory() *fakeMemory { return &fakeMemory{entries: map[string]string{}} }

func memKey(text string, source, target language.Tag) string {
	return string(source) + "|" + string(target) + "|" + text
}

func (m *fakeMemory) Lookup(_ context.Context, text string, source, target language.Tag) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	v, ok := m.entries[memKey(text, source, target)]
	return v, ok, nil
}

func (m *fakeMemory) Save(_ context.Context, text string, source, target language.Tag, translated string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[memKey(text, source, target)] = translated
	return nil
}

func (m *fakeMemory) Close() error { return nil }

var errBoom = errors.New("boom")
