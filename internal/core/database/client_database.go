package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
)

var _ core.TranslationMemory = (*TranslationMemoryClient)(nil)

// TranslationMemoryClient stores finished translations keyed by the engine
// that produced them, a hash of the NFC-normalized source text and the
// language pair. A client built by NewTranslationMemory has an empty engine;
// ForEngine scopes it.
type TranslationMemoryClient struct {
	db      *sql.DB
	dialect dialect
	engine  string
}

// NewTranslationMemory opens dsn, which is either a postgres:// URL or a
// SQLite file path, and bootstraps the schema.
func NewTranslationMemory(ctx context.Context, dsn string) (*TranslationMemoryClient, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("translation memory DSN is empty")
	}
	d, dsn := dialectFor(dsn)

	if d == sqliteDialect {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache directory: %w", err)
			}
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if d == sqliteDialect {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &TranslationMemoryClient{db: db, dialect: d}, nil
}

// ForEngine returns a view over the same database whose entries belong to
// engine, for example "llm:openai:gpt-4o" or "google". Closing the view
// closes the shared database.
func (c *TranslationMemoryClient) ForEngine(engine string) *TranslationMemoryClient {
	return &TranslationMemoryClient{db: c.db, dialect: c.dialect, engine: engine}
}

func (c *TranslationMemoryClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Lookup returns the stored translation and bumps its usage counters.
func (c *TranslationMemoryClient) Lookup(ctx context.Context, text string, source, target language.Tag) (string, bool, error) {
	hash := textHash(text)

	q := c.dialect.rebind(`
		SELECT translated_text FROM translation_memory
		WHERE engine = ? AND text_hash = ? AND source_lang = ? AND target_lang = ?
	`)
	var translated string
	err := c.db.QueryRowContext(ctx, q, c.engine, hash, string(source), string(target)).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation: %w", err)
	}

	q = c.dialect.rebind(`
		UPDATE translation_memory
		SET hit_count = hit_count + 1, last_used_at = CURRENT_TIMESTAMP
		WHERE engine = ? AND text_hash = ? AND source_lang = ? AND target_lang = ?
	`)
	if _, err := c.db.ExecContext(ctx, q, c.engine, hash, string(source), string(target)); err != nil {
		return translated, true, fmt.Errorf("record hit: %w", err)
	}
	return translated, true, nil
}

// Save inserts or replaces the translation for (engine, text, source, target).
func (c *TranslationMemoryClient) Save(ctx context.Context, text string, source, target language.Tag, translated string) error {
	q := c.dialect.rebind(`
		INSERT INTO translation_memory (engine, text_hash, source_lang, target_lang, translated_text)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (engine, text_hash, source_lang, target_lang)
		DO UPDATE SET translated_text = excluded.translated_text, last_used_at = CURRENT_TIMESTAMP
	`)
	if _, err := c.db.ExecContext(ctx, q, c.engine, textHash(text), string(source), string(target), translated); err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return nil
}

// Hits reports how many times the entry was served from memory.
func (c *TranslationMemoryClient) Hits(ctx context.Context, text string, source, target language.Tag) (int, error) {
	q := c.dialect.rebind(`
		SELECT hit_count FROM translation_memory
		WHERE engine = ? AND text_hash = ? AND source_lang = ? AND target_lang = ?
	`)
	var n int
	err := c.db.QueryRowContext(ctx, q, c.engine, textHash(text), string(source), string(target)).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// Prune deletes entries of every engine not used since before.
func (c *TranslationMemoryClient) Prune(ctx context.Context, before time.Time) (int64, error) {
	q := c.dialect.rebind(`DELETE FROM translation_memory WHERE last_used_at < ?`)
	res, err := c.db.ExecContext(ctx, q, before.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("prune translation memory: %w", err)
	}
	return res.RowsAffected()
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}
