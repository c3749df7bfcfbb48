package statica

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments. Unlike PageURL it carries no
// clean-URL semantics; it serves fixed site files such as feeds and media.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// RelatedPosts finds posts that share at least one tag with current, in
// cache post order.
func RelatedPosts(current *Post, cache *ContentCache) []*Post {
	tagSet := make(map[int64]struct{})
	for _, id := range cache.PostTags[current.ID] {
		tagSet[id] = struct{}{}
	}
	var related []*Post
	for i := range cache.Posts {
		p := &cache.Posts[i]
		if p.ID == current.ID {
			continue
		}
		for _, id := range cache.PostTags[p.ID] {
			if _, ok := tagSet[id]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         strings.TrimRight(cfg.URL, "/") + "/",
		"description": cfg.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for a BlogPosting schema.
func ArticleJsonLD(post *Post, author *Author, postURL string, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Created,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Modified != "" {
		data["dateModified"] = post.Modified
	}
	if author != nil {
		name := author.Name
		if name == "" {
			name = author.Username
		}
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  name,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
