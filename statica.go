// Package statica renders a content-managed site stored in SQLite into a
// static tree of HTML pages, listing archives, feeds and an optional
// accelerated-mobile twin, driven by Handlebars themes.
//
// A build reads the content database once per pass into an in-memory cache,
// plans pagination for every listing, resolves and lazily compiles theme
// templates, and emits pages through a single writer. Configuration and
// theme problems abort before anything is written; per-page template and
// data problems are accumulated in an error log while generation runs to
// completion.
package statica

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine generates one site. It is safe to call Build repeatedly; each call
// produces a fresh snapshot of the database.
type Engine struct {
	Config SiteConfig

	store    *Store
	ownStore bool
	log      *zap.Logger
	progress func(Progress)
}

// New creates an Engine for the given configuration. Zero-valued fields are
// filled with defaults; validation happens in Build.
func New(cfg SiteConfig, opts ...Option) *Engine {
	cfg.setDefaults()
	e := &Engine{
		Config:   cfg,
		ownStore: true,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildResult is the outcome of one full generation run.
type BuildResult struct {
	Errors       []ErrorEntry
	PagesWritten int
	Duration     time.Duration
}

// Success reports whether the run finished without a single recorded error.
func (r *BuildResult) Success() bool {
	return len(r.Errors) == 0
}

// Build runs the full generation: the standard pass, media and feeds, then
// the accelerated-twin pass when both the configuration and the theme enable
// it. The returned error covers setup failures only (configuration, theme,
// store); everything that happens during emission lands in the result's
// error list instead.
func (e *Engine) Build() (*BuildResult, error) {
	start := time.Now()
	if err := e.Config.validate(); err != nil {
		return nil, err
	}
	theme, err := LoadTheme(e.Config.ThemeDir)
	if err != nil {
		return nil, err
	}

	store := e.store
	if store == nil {
		store, err = NewStore(e.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("statica: open content store: %w", err)
		}
		defer store.Close()
	}

	e.notify(0, "starting build")
	errs := &ErrorLog{}

	std, err := newPassContext(e.Config, theme, store, false, errs, e.log)
	if err != nil {
		return nil, err
	}
	e.notify(10, "content cache built")
	std.run(e.notify, 10, 40)
	e.notify(50, "standard pages rendered")

	std.processFeaturedImages()
	e.notify(60, "featured images processed")
	if err := writeFeed(std); err != nil {
		errs.Append("write feed.xml", err.Error())
	}
	if err := writeSitemap(std); err != nil {
		errs.Append("write sitemap.xml", err.Error())
	}
	e.notify(65, "feeds written")
	written := std.emitter.Written()

	if e.Config.AMP && theme.AMPEnabled {
		twin, err := newPassContext(e.Config, theme, store, true, errs, e.log)
		if err != nil {
			return nil, err
		}
		twin.run(e.notify, 65, 30)
		e.notify(95, "accelerated pages rendered")
		written += twin.emitter.Written()
	}

	e.notify(100, "done")
	result := &BuildResult{
		Errors:       errs.Entries(),
		PagesWritten: written,
		Duration:     time.Since(start),
	}
	e.log.Info("build finished",
		zap.Int("pages", result.PagesWritten),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Close releases the injected content store, if the engine owns one. Engines
// created with WithStore never close the caller's store.
func (e *Engine) Close() error {
	if e.store != nil && e.ownStore {
		return e.store.Close()
	}
	return nil
}

func (e *Engine) notify(percent int, message string) {
	e.log.Debug("progress", zap.Int("percent", percent), zap.String("message", message))
	if e.progress != nil {
		e.progress(Progress{Percent: percent, Message: message})
	}
}
