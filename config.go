package statica

import (
	"strings"

	"go.uber.org/zap"
)

// SiteConfig holds all configuration for one statica site. It is immutable
// for the duration of a build; per-pass differences (output root, AMP base
// URL) live in the derived pass context, never here.
type SiteConfig struct {
	Name        string // Site name (default "Site")
	Description string // Site description for feeds and meta tags
	URL         string // Canonical site URL (default "http://localhost:3000")

	DatabasePath string // SQLite content database (default "data/site.db")
	ThemeDir     string // Active theme directory (default "theme")
	OutputDir    string // Root of the generated tree (default "output")
	MediaDir     string // Source directory for post media (default "media")

	CleanURLs     bool   // Directory-style URLs with trailing slash
	TrailingIndex bool   // Append explicit index.html when CleanURLs is off
	TagsPrefix    string // Path prefix for tag listings (may be empty)
	AuthorsPrefix string // Path prefix for author listings (default "authors")
	PageSegment   string // Pagination path segment (default "page")
	ErrorPage     string // 404 output filename (default "404.html")
	SearchPage    string // Search output filename (default "search.html")

	AMP bool // Also generate the accelerated-mobile twin tree under amp/

	PostsPerPage       int // Home listing page size, -1 for unlimited (default 5)
	TagPostsPerPage    int // Tag listing page size (default 5)
	AuthorPostsPerPage int // Author listing page size (default 5)

	DisplayEmptyTags    bool // Render tags with no published posts
	DisplayEmptyAuthors bool // Render authors with no published posts

	FeedItemCount int   // Number of posts in feed.xml (default 10)
	ImageWidths   []int // Featured-image rendition widths (default 320, 768)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ThemeDir == "" {
		c.ThemeDir = "theme"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.MediaDir == "" {
		c.MediaDir = "media"
	}
	if c.AuthorsPrefix == "" {
		c.AuthorsPrefix = "authors"
	}
	if c.PageSegment == "" {
		c.PageSegment = "page"
	}
	if c.ErrorPage == "" {
		c.ErrorPage = "404.html"
	}
	if c.SearchPage == "" {
		c.SearchPage = "search.html"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 5
	}
	if c.TagPostsPerPage == 0 {
		c.TagPostsPerPage = 5
	}
	if c.AuthorPostsPerPage == 0 {
		c.AuthorPostsPerPage = 5
	}
	if c.FeedItemCount == 0 {
		c.FeedItemCount = 10
	}
	if len(c.ImageWidths) == 0 {
		c.ImageWidths = []int{320, 768}
	}
}

// validate rejects configurations the pipeline cannot run with. It runs
// before any pass starts.
func (c SiteConfig) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &ConfigError{Reason: "site URL is empty"}
	}
	if c.PageSegment == "" {
		return &ConfigError{Reason: "pagination path segment is empty"}
	}
	if c.ThemeDir == "" {
		return &ConfigError{Reason: "theme directory is empty"}
	}
	return nil
}

// pageSizeFor returns the configured page size for a listing kind.
func (c SiteConfig) pageSizeFor(kind ListingKind) int {
	switch kind {
	case KindTag:
		return c.TagPostsPerPage
	case KindAuthor:
		return c.AuthorPostsPerPage
	default:
		return c.PostsPerPage
	}
}

// Progress is a one-way notification emitted at fixed pipeline checkpoints.
type Progress struct {
	Percent int
	Message string
}

// Option configures additional Engine behavior.
type Option func(*Engine)

// WithLogger sets the zap logger used by the engine. The default is a nop
// logger so library use stays quiet.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithProgress registers a progress callback. Notifications are
// fire-and-forget; the callback must not block.
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithStore injects an already-open content store, bypassing DatabasePath.
func WithStore(s *Store) Option {
	return func(e *Engine) {
		e.store = s
		e.ownStore = false
	}
}
