package statica

import (
	"path"
	"strconv"
	"strings"
)

// URL and output-path derivation shared by every listing kind. All functions
// here are pure: the same inputs always produce the same URL, and the AMP
// twin of any canonical URL differs only by the /amp segment after the root.

// ampSegment is the path segment separating the accelerated-mobile twin tree
// from the standard one.
const ampSegment = "amp"

// PageURL maps one page of a listing to its canonical URL and its
// accelerated-twin URL. The twin URL is empty when AMP output is disabled.
// Page 1 never carries a page-number segment; pages beyond the first insert
// the configured pagination segment after the entity's own path.
func PageURL(kind ListingKind, slug string, page int, cfg SiteConfig) (canonical, amp string) {
	base := strings.TrimRight(cfg.URL, "/")
	canonical = buildPageURL(base, kind, slug, page, cfg)
	if cfg.AMP {
		amp = buildPageURL(base+"/"+ampSegment, kind, slug, page, cfg)
	}
	return canonical, amp
}

// PagePath maps one page of a listing to its output file path, relative to
// the pass output root and slash-separated. The first page always lands on
// the listing's canonical file; later pages go to page-numbered sub-paths.
func PagePath(kind ListingKind, slug string, page int, cfg SiteConfig) string {
	if kind == KindPost && page <= 1 && !cfg.CleanURLs {
		return slug + ".html"
	}
	segs := pageSegments(kind, slug, page, cfg)
	return path.Join(append(segs, "index.html")...)
}

// pageSegments returns the path segments under the site root for one page,
// honoring the kind-specific prefixes. An empty prefix is skipped entirely.
func pageSegments(kind ListingKind, slug string, page int, cfg SiteConfig) []string {
	var segs []string
	switch kind {
	case KindPost:
		segs = append(segs, slug)
	case KindTag:
		if cfg.TagsPrefix != "" {
			segs = append(segs, cfg.TagsPrefix)
		}
		segs = append(segs, slug)
	case KindAuthor:
		if cfg.AuthorsPrefix != "" {
			segs = append(segs, cfg.AuthorsPrefix)
		}
		segs = append(segs, slug)
	}
	if page > 1 {
		segs = append(segs, cfg.PageSegment, strconv.Itoa(page))
	}
	return segs
}

func buildPageURL(base string, kind ListingKind, slug string, page int, cfg SiteConfig) string {
	u := base
	if segs := pageSegments(kind, slug, page, cfg); len(segs) > 0 {
		u += "/" + strings.Join(segs, "/")
	}
	if kind == KindPost && page <= 1 {
		if cfg.CleanURLs {
			return u + "/"
		}
		return u + ".html"
	}
	if cfg.CleanURLs {
		return u + "/"
	}
	if cfg.TrailingIndex {
		return u + "/index.html"
	}
	return u
}
