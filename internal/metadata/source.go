// file: internal/metadata/source.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-e1f2a3b4c5d6

package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jdfalk/bookmeta/internal/cache"
	"github.com/jdfalk/bookmeta/internal/logger"
)

// MetadataSource is a pluggable metadata provider. Identify pushes zero or
// more records onto out and returns when its workers finish or ctx is
// cancelled; DownloadCover pushes at most one cover. Neither closes out.
type MetadataSource interface {
	Name() string
	Capabilities() Capability
	TouchedFields() []string
	Identify(ctx context.Context, req SearchRequest, out chan<- Record) error
	DownloadCover(ctx context.Context, req SearchRequest, out chan<- Cover) error
}

// Capability is a set of operations a source supports.
type Capability uint8

const (
	CapIdentify Capability = 1 << iota
	CapCover
)

// Has reports whether every capability in c2 is in c.
func (c Capability) Has(c2 Capability) bool { return c&c2 == c2 }

// Names lists the capabilities in declaration order.
func (c Capability) Names() []string {
	var names []string
	if c.Has(CapIdentify) {
		names = append(names, "identify")
	}
	if c.Has(CapCover) {
		names = append(names, "cover")
	}
	return names
}

func (c Capability) String() string { return strings.Join(c.Names(), ",") }

// Logger is the leveled sink the source reports through. Exception is for
// unexpected failures and should carry a stack.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
	Exception(err error, format string, args ...any)
}

// Sanitizer cleans a record once, just before it is emitted.
type Sanitizer interface {
	Clean(rec *Record)
}

// Ranker scores how well a record matches a request; higher is better.
type Ranker interface {
	Score(req SearchRequest, rec Record) int
}

// CoverCache maps a remote id (optionally "small/"-prefixed) to a cover URL.
type CoverCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// IdentifierIndex remembers which remote id an ISBN resolved to.
type IdentifierIndex interface {
	LookupISBN(isbn string) (string, bool)
	Remember(isbn, id string) error
}

// Config holds the tunables of a Biblionet source.
type Config struct {
	Name         string
	BaseURL      string
	Timeout      time.Duration // per request
	StaggerDelay time.Duration // between worker starts
	PollInterval time.Duration // coordinator progress tick
}

// DefaultConfig returns the settings used when none are supplied.
func DefaultConfig() Config {
	return Config{
		Name:         "Biblionet",
		BaseURL:      "http://localhost/~nikan/bookmeta/index.php",
		Timeout:      20 * time.Second,
		StaggerDelay: 100 * time.Millisecond,
		PollInterval: 200 * time.Millisecond,
	}
}

// touchedFields are the record fields this source can populate.
var touchedFields = []string{
	"identifier:isbn",
	"identifier:biblionet",
	"title",
	"authors",
	"tags",
	"publisher",
	"pubdate",
	"series",
}

// candidateSchemes lists the identifier schemes that produce a lookup URL,
// each with the query parameter it is sent as.
var candidateSchemes = map[string]string{
	SchemeISBN: "isbn",
}

// Source is the Biblionet implementation of MetadataSource.
type Source struct {
	cfg       Config
	base      *url.URL
	log       Logger
	fetcher   Fetcher
	sanitizer Sanitizer
	ranker    Ranker
	covers    CoverCache
	index     IdentifierIndex
}

var _ MetadataSource = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the log sink.
func WithLogger(l Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFetcher sets the template fetcher cloned by each worker.
func WithFetcher(f Fetcher) Option {
	return func(s *Source) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSanitizer sets the record cleaner.
func WithSanitizer(z Sanitizer) Option {
	return func(s *Source) {
		if z != nil {
			s.sanitizer = z
		}
	}
}

// WithRanker sets the ranking used to pick a cover among identify results.
func WithRanker(r Ranker) Option {
	return func(s *Source) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithCoverCache replaces the in-memory cover cache.
func WithCoverCache(c CoverCache) Option {
	return func(s *Source) {
		if c != nil {
			s.covers = c
		}
	}
}

// WithIdentifierIndex replaces the in-memory ISBN index.
func WithIdentifierIndex(idx IdentifierIndex) Option {
	return func(s *Source) {
		if idx != nil {
			s.index = idx
		}
	}
}

// NewSource validates cfg and builds a source. Zero durations fall back to
// DefaultConfig values.
func NewSource(cfg Config, opts ...Option) (*Source, error) {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = def.Name
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, errors.New("metadata: base url required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("metadata: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("metadata: base url must be http(s), got %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.StaggerDelay < 0 {
		cfg.StaggerDelay = 0
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}

	s := &Source{
		cfg:       cfg,
		base:      base,
		log:       logger.New(logger.InfoLevel),
		fetcher:   NewHTTPFetcher(),
		sanitizer: DefaultSanitizer{},
		ranker:    relevanceRanker{},
		covers:    cache.New[string](0),
		index:     newMemoryIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the display name for this metadata source.
func (s *Source) Name() string { return s.cfg.Name }

// Capabilities reports identify and cover support.
func (s *Source) Capabilities() Capability { return CapIdentify | CapCover }

// TouchedFields lists the fields records from this source may set.
func (s *Source) TouchedFields() []string {
	out := make([]string, len(touchedFields))
	copy(out, touchedFields)
	return out
}

// Config returns the effective configuration.
func (s *Source) Config() Config { return s.cfg }

// CoverURLFor returns the cached cover URL for a remote id, checking the
// bare id before the "small/" variant.
func (s *Source) CoverURLFor(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for _, key := range []string{id, "small/" + id} {
		if u, ok := s.covers.Get(key); ok && u != "" {
			return u, true
		}
	}
	return "", false
}

func (s *Source) requestTimeout(req SearchRequest) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return s.cfg.Timeout
}

// memoryIndex is the process-local IdentifierIndex.
type memoryIndex struct {
	c *cache.Cache[string]
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{c: cache.New[string](0)}
}

func (m *memoryIndex) LookupISBN(isbn string) (string, bool) {
	return m.c.Get(strings.TrimSpace(isbn))
}

func (m *memoryIndex) Remember(isbn, id string) error {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" || id == "" {
		return nil
	}
	m.c.Set(isbn, id)
	return nil
}
