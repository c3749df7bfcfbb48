package statica

import (
	"strconv"
)

// Template context construction. Each pass exposes two layers to templates:
// the shared site data frame (reachable as @site) and a per-page locals map.
// The per-kind global context is one long-lived map mutated in place between
// pages of the same listing, never shared across kinds or modes.

// buildSiteData assembles the shared data for one pass. The tag-link list
// excludes empty tags unless the site displays them, which is what keeps
// suppressed tags out of every listing's context.
func buildSiteData(pc *passContext) map[string]interface{} {
	cfg := pc.cfg

	var tagLinks []map[string]interface{}
	for i := range pc.cache.Tags {
		t := &pc.cache.Tags[i]
		if t.PostCount == 0 && !cfg.DisplayEmptyTags {
			continue
		}
		tagLinks = append(tagLinks, map[string]interface{}{
			"name":      t.Name,
			"slug":      t.Slug,
			"url":       pc.localURL(KindTag, t.Slug, 1),
			"postCount": t.PostCount,
		})
	}

	var menus []map[string]interface{}
	for _, m := range pc.cache.Menus {
		menus = append(menus, map[string]interface{}{
			"label": m.Label,
			"link":  m.Link,
		})
	}

	return map[string]interface{}{
		"title":       cfg.Name,
		"description": cfg.Description,
		"url":         pc.baseURL,
		"amp":         pc.amp,
		"feedUrl":     BuildURL(cfg.URL, "feed.xml"),
		"tags":        tagLinks,
		"menus":       menus,
		"jsonLD":      WebsiteJsonLD(cfg),
	}
}

// globalContext is the mutable per-kind, per-mode shared context. The
// pipeline owns it exclusively for the duration of one listing kind's
// emission loop.
type globalContext struct {
	data map[string]interface{}
}

func newGlobalContext(kind ListingKind) *globalContext {
	return &globalContext{data: map[string]interface{}{
		"kind": string(kind),
	}}
}

// pageURLs is every address one page answers to. Page is the URL within
// the current pass's tree; Canonical and AMP are mode-independent.
type pageURLs struct {
	Page      string
	Canonical string
	AMP       string
}

// setPage mutates the page-scoped fields in place: URLs, the pagination
// block (absent for single-page listings), first/last flags and the context
// path tags templates use to pick rendering branches.
func (g *globalContext) setPage(plan PagePlan, spec PageSpec, urls pageURLs, nextURL, prevURL string, contextPath []string) {
	g.data["url"] = urls.Page
	g.data["canonicalUrl"] = urls.Canonical
	g.data["ampUrl"] = urls.AMP
	g.data["isFirstPage"] = spec.First
	g.data["isLastPage"] = spec.Last
	g.data["context"] = contextPath
	if !plan.Paginated() {
		delete(g.data, "pagination")
		return
	}
	pagination := map[string]interface{}{
		"currentPage": spec.Number,
		"totalPages":  plan.TotalPages,
		"pageSize":    plan.PageSize,
		"totalItems":  plan.TotalItems,
	}
	if spec.Next > 0 {
		pagination["nextPage"] = spec.Next
		pagination["nextPageUrl"] = nextURL
	}
	if spec.Prev > 0 {
		pagination["previousPage"] = spec.Prev
		pagination["previousPageUrl"] = prevURL
	}
	g.data["pagination"] = pagination
}

// contextPath returns the accumulated context tags for one page.
func contextPath(kind ListingKind, variant string, page int, amp bool) []string {
	var tags []string
	switch kind {
	case KindHome:
		tags = append(tags, "index")
	default:
		tags = append(tags, string(kind))
	}
	if variant != "" && variant != DefaultTemplate {
		tags = append(tags, string(kind)+"-"+variant)
	}
	if page > 1 {
		tags = append(tags, "pagination")
	}
	if amp {
		tags = append(tags, "amp")
	}
	return tags
}

// postData builds the full locals for a post page.
func (pc *passContext) postData(p *Post) map[string]interface{} {
	urls := pc.pageURLs(KindPost, p.Slug, 1)
	author := pc.cache.AuthorByID[p.AuthorID]

	data := map[string]interface{}{
		"id":           p.ID,
		"slug":         p.Slug,
		"title":        p.Title,
		"created":      p.Created,
		"modified":     p.Modified,
		"excerpt":      p.Excerpt,
		"content":      p.Content,
		"url":          urls.Page,
		"canonicalUrl": urls.Canonical,
		"ampUrl":       urls.AMP,
		"jsonLD":       ArticleJsonLD(p, author, urls.Canonical, pc.cfg),
	}

	var tags []map[string]interface{}
	for _, t := range pc.cache.TagsForPost(p.ID) {
		tags = append(tags, map[string]interface{}{
			"name": t.Name,
			"slug": t.Slug,
			"url":  pc.localURL(KindTag, t.Slug, 1),
		})
	}
	data["tags"] = tags

	if author != nil && p.View.DisplayAuthor {
		data["author"] = pc.authorLink(author)
	}
	if img, ok := pc.cache.FeaturedImages[p.ID]; ok && p.View.DisplayFeaturedImage {
		data["featuredImage"] = pc.featuredImageData(img)
	}
	data["displayShareButtons"] = p.View.DisplayShareButtons
	return data
}

// postSummary builds the reduced locals used inside listing pages.
func (pc *passContext) postSummary(p *Post) map[string]interface{} {
	data := map[string]interface{}{
		"id":      p.ID,
		"slug":    p.Slug,
		"title":   p.Title,
		"created": p.Created,
		"excerpt": p.Excerpt,
		"url":     pc.localURL(KindPost, p.Slug, 1),
	}
	if author := pc.cache.AuthorByID[p.AuthorID]; author != nil {
		data["author"] = pc.authorLink(author)
	}
	if img, ok := pc.cache.FeaturedImages[p.ID]; ok && p.View.DisplayFeaturedImage {
		data["featuredImage"] = pc.featuredImageData(img)
	}
	return data
}

func (pc *passContext) authorLink(a *Author) map[string]interface{} {
	name := a.Name
	if name == "" {
		name = a.Username
	}
	return map[string]interface{}{
		"name":     name,
		"username": a.Username,
		"url":      pc.localURL(KindAuthor, a.Username, 1),
	}
}

// featuredImageData exposes the published rendition URLs. Media always
// lives under the standard tree; the AMP twin links back to it.
func (pc *passContext) featuredImageData(img FeaturedImage) map[string]interface{} {
	sizes := make(map[string]string, len(pc.cfg.ImageWidths))
	for _, w := range pc.cfg.ImageWidths {
		sizes[strconv.Itoa(w)] = featuredImageURL(pc.cfg, img.PostID, renditionName(img.Path, w))
	}
	return map[string]interface{}{
		"url":     featuredImageURL(pc.cfg, img.PostID, baseName(img.Path)),
		"alt":     img.Alt,
		"caption": img.Caption,
		"sizes":   sizes,
	}
}

// tagData builds the locals shared by every page of a tag listing.
func (pc *passContext) tagData(t *Tag) map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"name":        t.Name,
		"slug":        t.Slug,
		"description": t.Description,
		"postCount":   t.PostCount,
		"url":         pc.localURL(KindTag, t.Slug, 1),
	}
}

// authorData builds the locals shared by every page of an author listing.
func (pc *passContext) authorData(a *Author) map[string]interface{} {
	data := pc.authorLink(a)
	data["id"] = a.ID
	data["description"] = a.Description
	data["postCount"] = a.PostCount
	return data
}

// summaries converts a page-sized slice of posts into listing locals.
func (pc *passContext) summaries(posts []*Post) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(posts))
	for _, p := range posts {
		result = append(result, pc.postSummary(p))
	}
	return result
}
