// Package corpus loads and chunks the document collection the service
// retrieves over. A corpus is loaded exactly once at startup and never
// mutated afterwards.
package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

// Source names accepted by the loader. Anything else falls back to the
// built-in default corpus.
const (
	SourceDefault = "default"
	SourceCustom  = "custom"
)

// Document is one retrievable unit of the corpus. ChunkID is 1-based and
// strictly increasing in source order; 0 means the document carries no
// narrative position.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	ChunkID int    `json:"chunk_id"`
	Source  string `json:"source"`
}

// ParserConfig controls verse extraction from structured sources. The loose
// heuristic is only consulted when the strict pattern matches nothing.
type ParserConfig struct {
	// MinVerseLine is the minimum raw line length for the strict pattern.
	MinVerseLine int
	// MinVerseBody is the minimum extracted body length for the strict pattern.
	MinVerseBody int
	// LooseMinLength is the minimum line length for the loose heuristic.
	LooseMinLength int
	// LooseKeywords: a loose-heuristic line must contain at least one.
	LooseKeywords []string
	// MarkupPrefixes mark non-content lines skipped by the loose heuristic.
	MarkupPrefixes []string
}

// DefaultParserConfig returns the thresholds tuned for verse-numbered
// narrative text.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MinVerseLine:   30,
		MinVerseBody:   20,
		LooseMinLength: 50,
		LooseKeywords:  []string{"Nephi", "Lord", "came to pass"},
		MarkupPrefixes: []string{"*", "[", "Chapter"},
	}
}

var (
	strictVersePattern = regexp.MustCompile(`^\s*\d+\s+[A-Z]`)
	verseBodyPattern   = regexp.MustCompile(`^\s*\d+\s+(.+)`)
	// Book headings like "1 Nephi 3" carry no verse content.
	headingPattern = regexp.MustCompile(`^\d+ [A-Z][a-z]+ \d+$`)
)

// Loader reads, parses, and chunks a corpus source.
type Loader struct {
	source      string
	path        string
	chunkSize   int
	overlap     int
	titlePrefix string
	parser      ParserConfig
	logger      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParserConfig overrides the verse parsing thresholds.
func WithParserConfig(pc ParserConfig) LoaderOption {
	return func(l *Loader) { l.parser = pc }
}

// WithTitlePrefix sets the chunk title prefix for structured sources.
func WithTitlePrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.titlePrefix = prefix }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader for the given source selector and chunking
// parameters. path is only consulted when source is SourceCustom.
func NewLoader(source, path string, chunkSize, overlap int, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		path:        path,
		chunkSize:   chunkSize,
		overlap:     overlap,
		titlePrefix: "Corpus",
		parser:      DefaultParserConfig(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the corpus for the configured source. It never fails: any
// problem with a custom source is logged and the built-in default corpus is
// returned instead.
func (l *Loader) Load() []Document {
	if !strings.EqualFold(l.source, SourceCustom) {
		if !strings.EqualFold(l.source, SourceDefault) {
			l.logger.Warn("unrecognized corpus source, using default corpus", "source", l.source)
		}
		return DefaultCorpus()
	}

	docs, err := l.loadCustom()
	if err != nil {
		l.logger.Warn("failed to load custom corpus, using default corpus",
			"path", l.path, "error", err)
		return DefaultCorpus()
	}

	l.logger.Info("loaded custom corpus", "path", l.path, "chunks", len(docs))
	return docs
}

func (l *Loader) loadCustom() ([]Document, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.New(rerrors.ErrCodeSourceNotFound, "corpus file not found", err)
		}
		return nil, rerrors.New(rerrors.ErrCodeSourceRead, "corpus file unreadable", err)
	}

	verses, err := l.ParseVerses(string(raw))
	if err != nil {
		return nil, err
	}

	docs := l.ChunkVerses(verses)
	if len(docs) == 0 {
		return nil, rerrors.New(rerrors.ErrCodeNoVerses, "no chunks produced from source", nil)
	}
	return docs, nil
}

// ParseVerses extracts verse bodies from structured text. The strict
// numbered-verse pattern is tried first; if it matches nothing, the loose
// heuristic is applied. A typed error is returned when both match nothing.
func (l *Loader) ParseVerses(content string) ([]string, error) {
	lines := strings.Split(content, "\n")

	var verses []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= l.parser.MinVerseLine || !strictVersePattern.MatchString(line) {
			continue
		}
		m := verseBodyPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		body := strings.TrimSpace(m[1])
		if len(body) > l.parser.MinVerseBody {
			verses = append(verses, body)
		}
	}

	if len(verses) > 0 {
		return verses, nil
	}

	l.logger.Debug("no verses matched strict pattern, trying loose heuristic")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if l.matchesLoose(line) {
			verses = append(verses, line)
		}
	}

	if len(verses) == 0 {
		return nil, rerrors.New(rerrors.ErrCodeNoVerses, "no verses found in source", nil)
	}
	return verses, nil
}

// matchesLoose applies the fallback heuristic: every condition must hold.
func (l *Loader) matchesLoose(line string) bool {
	if len(line) < l.parser.LooseMinLength {
		return false
	}
	for _, prefix := range l.parser.MarkupPrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	if headingPattern.MatchString(line) || isAllUpper(line) {
		return false
	}
	for _, kw := range l.parser.LooseKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// ChunkVerses greedily packs verses into chunks of at most chunkSize
// characters, seeding each new chunk with the tail of the previous one when
// the overlap is configured and the previous chunk is long enough. Verse
// boundaries are never split, so a chunk may exceed chunkSize by up to one
// verse length.
func (l *Loader) ChunkVerses(verses []string) []Document {
	var docs []Document
	current := ""
	chunkID := 1

	flush := func() {
		docs = append(docs, Document{
			Title:   fmt.Sprintf("%s - Chunk %d", l.titlePrefix, chunkID),
			Content: strings.TrimSpace(current),
			ChunkID: chunkID,
			Source:  SourceCustom,
		})
		chunkID++
	}

	for _, verse := range verses {
		if current != "" && len(current)+len(verse)+1 > l.chunkSize {
			flush()
			if l.overlap > 0 && len(current) > l.overlap {
				current = current[len(current)-l.overlap:] + " " + verse
			} else {
				current = verse
			}
			continue
		}
		if current == "" {
			current = verse
		} else {
			current += " " + verse
		}
	}

	if strings.TrimSpace(current) != "" {
		flush()
	}
	return docs
}
