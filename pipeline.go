package statica

import (
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"go.uber.org/zap"
)

// passContext is the derived state for one output mode of one build: output
// root, base URL, its own content cache and compiled-template cache. The
// standard and accelerated-twin passes are two invocations of the same pass
// function against two of these values, run strictly sequentially.
type passContext struct {
	cfg       SiteConfig
	theme     *Theme
	amp       bool
	baseURL   string
	cache     *ContentCache
	templates *templateCache
	emitter   *Emitter
	errs      *ErrorLog
	log       *zap.Logger
	site      *raymond.DataFrame

	// canonical URLs of successfully written pages; the standard pass
	// feeds these to the sitemap builder.
	urls []string
}

func newPassContext(cfg SiteConfig, theme *Theme, store *Store, amp bool, errs *ErrorLog, log *zap.Logger) (*passContext, error) {
	outputDir := cfg.OutputDir
	baseURL := strings.TrimRight(cfg.URL, "/")
	if amp {
		outputDir = filepath.Join(outputDir, ampSegment)
		baseURL += "/" + ampSegment
	}

	// Each pass builds its own snapshot; nothing is rebuilt "over" the
	// previous pass's state.
	cache, err := BuildCache(store, errs)
	if err != nil {
		return nil, err
	}

	pc := &passContext{
		cfg:       cfg,
		theme:     theme,
		amp:       amp,
		baseURL:   baseURL,
		cache:     cache,
		templates: newTemplateCache(theme, amp),
		emitter:   newEmitter(outputDir, errs, log),
		errs:      errs,
		log:       log,
	}
	frame := raymond.NewDataFrame()
	frame.Set("site", buildSiteData(pc))
	pc.site = frame
	return pc, nil
}

// pageURLs derives every URL one page answers to. Page is the address
// within the current pass's tree; Canonical and AMP are mode-independent.
func (pc *passContext) pageURLs(kind ListingKind, slug string, page int) pageURLs {
	canonical, amp := PageURL(kind, slug, page, pc.cfg)
	u := pageURLs{Page: canonical, Canonical: canonical, AMP: amp}
	if pc.amp {
		u.Page = amp
	}
	return u
}

// localURL returns the address of a page within the current pass's tree.
func (pc *passContext) localURL(kind ListingKind, slug string, page int) string {
	return pc.pageURLs(kind, slug, page).Page
}

// run drives every listing kind once for this output mode. Kinds are
// isolated from each other: a compile failure aborts its own kind and the
// next kind still runs. The pass always runs to completion; overall success
// is judged from the error log afterwards.
func (pc *passContext) run(notify func(int, string), base, span int) {
	kinds := []struct {
		name   string
		render func() bool
	}{
		{"home", pc.renderHome},
		{"posts", pc.renderPosts},
		{"tags", pc.renderTags},
		{"authors", pc.renderAuthors},
	}
	for i, k := range kinds {
		if !k.render() {
			pc.log.Warn("listing kind aborted", zap.String("kind", k.name), zap.Bool("amp", pc.amp))
		}
		notify(base+span*(i+1)/len(kinds), "rendered "+k.name)
	}
	if !pc.amp {
		pc.renderExtraPages()
	}
}

// emitPage renders one page and records its canonical URL on success.
func (pc *passContext) emitPage(tpl *raymond.Template, name string, page map[string]interface{}, relPath, canonicalURL string) {
	if pc.emitter.Emit(tpl, name, page, pc.site, relPath) && !pc.amp {
		pc.urls = append(pc.urls, canonicalURL)
	}
}

func (pc *passContext) renderHome() bool {
	if err := pc.templates.prepare(KindHome, nil); err != nil {
		pc.errs.CompileError(KindHome, DefaultTemplate, err)
		return false
	}
	tpl := pc.templates.templateFor(KindHome, DefaultTemplate)

	plan := Plan(len(pc.cache.Posts), pc.cfg.pageSizeFor(KindHome))
	g := newGlobalContext(KindHome)
	pc.site.Set("global", g.data)

	for _, spec := range plan.Pages {
		g.setPage(plan, spec, pc.pageURLs(KindHome, "", spec.Number),
			pc.neighborURL(KindHome, "", spec.Next), pc.neighborURL(KindHome, "", spec.Prev),
			contextPath(KindHome, "", spec.Number, pc.amp))
		page := map[string]interface{}{
			"title": pc.cfg.Name,
			"posts": pc.summaries(pagePosts(pc.cache.PostList, spec)),
		}
		pc.emitPage(tpl, pc.templates.cacheKey(KindHome, DefaultTemplate), page,
			PagePath(KindHome, "", spec.Number, pc.cfg),
			pc.pageURLs(KindHome, "", spec.Number).Canonical)
	}
	return true
}

func (pc *passContext) renderPosts() bool {
	var requested []string
	for i := range pc.cache.Posts {
		requested = append(requested, pc.theme.ResolveSlug(KindPost, pc.cache.Posts[i].Template))
	}
	if err := pc.templates.prepare(KindPost, requested); err != nil {
		pc.errs.CompileError(KindPost, DefaultTemplate, err)
		return false
	}

	g := newGlobalContext(KindPost)
	pc.site.Set("global", g.data)
	plan := Plan(1, 1)
	spec := plan.Pages[0]

	for i := range pc.cache.Posts {
		p := &pc.cache.Posts[i]
		slug := pc.theme.ResolveSlug(KindPost, p.Template)
		tpl := pc.templates.templateFor(KindPost, slug)

		g.setPage(plan, spec, pc.pageURLs(KindPost, p.Slug, 1), "", "",
			contextPath(KindPost, slug, 1, pc.amp))
		page := pc.postData(p)
		page["relatedPosts"] = pc.summaries(RelatedPosts(p, pc.cache))
		pc.emitPage(tpl, pc.templates.cacheKey(KindPost, slug), page,
			PagePath(KindPost, p.Slug, 1, pc.cfg),
			pc.pageURLs(KindPost, p.Slug, 1).Canonical)
	}
	return true
}

func (pc *passContext) renderTags() bool {
	var requested []string
	for i := range pc.cache.Tags {
		requested = append(requested, pc.theme.ResolveSlug(KindTag, pc.cache.Tags[i].Template))
	}
	if err := pc.templates.prepare(KindTag, requested); err != nil {
		pc.errs.CompileError(KindTag, DefaultTemplate, err)
		return false
	}

	for i := range pc.cache.Tags {
		t := &pc.cache.Tags[i]
		if t.PostCount == 0 && !pc.cfg.DisplayEmptyTags {
			continue
		}
		slug := pc.theme.ResolveSlug(KindTag, t.Template)
		tpl := pc.templates.templateFor(KindTag, slug)
		posts := pc.cache.TagPosts[t.ID]

		plan := Plan(len(posts), pc.cfg.pageSizeFor(KindTag))
		g := newGlobalContext(KindTag)
		pc.site.Set("global", g.data)

		for _, spec := range plan.Pages {
			g.setPage(plan, spec, pc.pageURLs(KindTag, t.Slug, spec.Number),
				pc.neighborURL(KindTag, t.Slug, spec.Next), pc.neighborURL(KindTag, t.Slug, spec.Prev),
				contextPath(KindTag, slug, spec.Number, pc.amp))
			page := map[string]interface{}{
				"title": t.Name,
				"tag":   pc.tagData(t),
				"posts": pc.summaries(pagePosts(posts, spec)),
			}
			pc.emitPage(tpl, pc.templates.cacheKey(KindTag, slug), page,
				PagePath(KindTag, t.Slug, spec.Number, pc.cfg),
				pc.pageURLs(KindTag, t.Slug, spec.Number).Canonical)
		}
	}
	return true
}

func (pc *passContext) renderAuthors() bool {
	var requested []string
	for i := range pc.cache.Authors {
		requested = append(requested, pc.theme.ResolveSlug(KindAuthor, pc.cache.Authors[i].Template))
	}
	if err := pc.templates.prepare(KindAuthor, requested); err != nil {
		pc.errs.CompileError(KindAuthor, DefaultTemplate, err)
		return false
	}

	for i := range pc.cache.Authors {
		a := &pc.cache.Authors[i]
		if a.PostCount == 0 && !pc.cfg.DisplayEmptyAuthors {
			continue
		}
		slug := pc.theme.ResolveSlug(KindAuthor, a.Template)
		tpl := pc.templates.templateFor(KindAuthor, slug)
		posts := pc.cache.AuthorPosts[a.ID]

		plan := Plan(len(posts), pc.cfg.pageSizeFor(KindAuthor))
		g := newGlobalContext(KindAuthor)
		pc.site.Set("global", g.data)

		for _, spec := range plan.Pages {
			g.setPage(plan, spec, pc.pageURLs(KindAuthor, a.Username, spec.Number),
				pc.neighborURL(KindAuthor, a.Username, spec.Next), pc.neighborURL(KindAuthor, a.Username, spec.Prev),
				contextPath(KindAuthor, slug, spec.Number, pc.amp))
			page := map[string]interface{}{
				"title":  a.Name,
				"author": pc.authorData(a),
				"posts":  pc.summaries(pagePosts(posts, spec)),
			}
			pc.emitPage(tpl, pc.templates.cacheKey(KindAuthor, slug), page,
				PagePath(KindAuthor, a.Username, spec.Number, pc.cfg),
				pc.pageURLs(KindAuthor, a.Username, spec.Number).Canonical)
		}
	}
	return true
}

// renderExtraPages emits the standalone error and search pages when the
// theme declares them. Standard mode only; they are never mirrored into the
// twin tree and never listed in the sitemap.
func (pc *passContext) renderExtraPages() {
	extras := []struct {
		enabled  bool
		template string
		filename string
		title    string
	}{
		{pc.theme.Create404Page, "404", pc.cfg.ErrorPage, "Page not found"},
		{pc.theme.CreateSearchPage, "search", pc.cfg.SearchPage, "Search"},
	}
	for _, x := range extras {
		if !x.enabled {
			continue
		}
		tpl, err := pc.templates.compileExtra(x.template)
		if err != nil {
			pc.errs.Append("compile "+x.template+" template", err.Error())
			continue
		}
		g := newGlobalContext(KindHome)
		g.data["context"] = []string{x.template}
		pc.site.Set("global", g.data)
		page := map[string]interface{}{"title": x.title}
		pc.emitter.Emit(tpl, x.template, page, pc.site, x.filename)
	}
}

// neighborURL returns the pass-local URL of an adjacent page, or "" when
// the page number is 0 (no such neighbor).
func (pc *passContext) neighborURL(kind ListingKind, slug string, page int) string {
	if page == 0 {
		return ""
	}
	return pc.localURL(kind, slug, page)
}

// pagePosts slices one page worth of posts out of a listing.
func pagePosts(posts []*Post, spec PageSpec) []*Post {
	if spec.Offset >= len(posts) {
		return nil
	}
	end := spec.Offset + spec.Count
	if end > len(posts) {
		end = len(posts)
	}
	return posts[spec.Offset:end]
}
