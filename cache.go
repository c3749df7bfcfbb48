package statica

import (
	"encoding/json"
	"fmt"

	"github.com/eringen/statica/markdown"
)

// viewSettingsKey is the post_settings key holding per-post view overrides.
const viewSettingsKey = "view"

// ContentCache is the in-memory snapshot of the content store for one
// generation pass. It is built fresh at the start of every pass and never
// mutated afterwards; every lookup during the pass is served from here so
// pagination spanning multiple output files sees one consistent state.
type ContentCache struct {
	Posts    []Post  // published, ordered by id
	PostList []*Post // pointer view of Posts, same order
	Tags     []Tag   // ordered by name, zero-count tags included
	Authors  []Author // ordered by username, zero-count authors included

	PostByID   map[int64]*Post
	TagByID    map[int64]*Tag
	AuthorByID map[int64]*Author

	PostTags    map[int64][]int64 // post id -> assigned tag ids
	TagPosts    map[int64][]*Post // tag id -> posts, in post order
	AuthorPosts map[int64][]*Post // author id -> posts, in post order

	FeaturedImages map[int64]FeaturedImage // post id -> featured image
	Menus          []MenuItem
}

// BuildCache reads the store exactly once and returns the pass snapshot.
// Post bodies are converted from Markdown to HTML here so both output modes
// render identical content. Malformed per-post settings JSON is recovered to
// defaults and recorded as a data warning; only store failures are fatal.
func BuildCache(store *Store, errs *ErrorLog) (*ContentCache, error) {
	posts, err := store.Posts()
	if err != nil {
		return nil, fmt.Errorf("statica: load posts: %w", err)
	}
	tags, err := store.Tags()
	if err != nil {
		return nil, fmt.Errorf("statica: load tags: %w", err)
	}
	authors, err := store.Authors()
	if err != nil {
		return nil, fmt.Errorf("statica: load authors: %w", err)
	}
	postTags, err := store.PostTags()
	if err != nil {
		return nil, fmt.Errorf("statica: load post tags: %w", err)
	}
	featured, err := store.FeaturedImages()
	if err != nil {
		return nil, fmt.Errorf("statica: load featured images: %w", err)
	}
	settings, err := store.PostSettings(viewSettingsKey)
	if err != nil {
		return nil, fmt.Errorf("statica: load post settings: %w", err)
	}
	menus, err := store.Menus()
	if err != nil {
		return nil, fmt.Errorf("statica: load menus: %w", err)
	}

	for i := range posts {
		html, err := markdown.ToHTML(posts[i].Content)
		if err != nil {
			errs.DataWarning(fmt.Sprintf("post %q body", posts[i].Slug), err)
			html = ""
		}
		posts[i].Content = html

		if raw, ok := settings[posts[i].ID]; ok {
			posts[i].View = decodeViewSettings(raw, posts[i].Slug, errs)
		}
	}

	c := &ContentCache{
		Posts:          posts,
		Tags:           tags,
		Authors:        authors,
		PostByID:       make(map[int64]*Post, len(posts)),
		TagByID:        make(map[int64]*Tag, len(tags)),
		AuthorByID:     make(map[int64]*Author, len(authors)),
		PostTags:       postTags,
		TagPosts:       make(map[int64][]*Post),
		AuthorPosts:    make(map[int64][]*Post),
		FeaturedImages: featured,
		Menus:          menus,
	}
	for i := range c.Posts {
		p := &c.Posts[i]
		c.PostList = append(c.PostList, p)
		c.PostByID[p.ID] = p
		c.AuthorPosts[p.AuthorID] = append(c.AuthorPosts[p.AuthorID], p)
		for _, tagID := range postTags[p.ID] {
			c.TagPosts[tagID] = append(c.TagPosts[tagID], p)
		}
	}
	for i := range c.Tags {
		c.TagByID[c.Tags[i].ID] = &c.Tags[i]
	}
	for i := range c.Authors {
		c.AuthorByID[c.Authors[i].ID] = &c.Authors[i]
	}
	return c, nil
}

// TagsForPost returns the tags assigned to a post, in tag-name order.
func (c *ContentCache) TagsForPost(postID int64) []*Tag {
	var result []*Tag
	for i := range c.Tags {
		t := &c.Tags[i]
		for _, id := range c.PostTags[postID] {
			if id == t.ID {
				result = append(result, t)
				break
			}
		}
	}
	return result
}

// decodeViewSettings merges the stored JSON over the default settings.
// Unknown keys are ignored. A decode failure falls back to pure defaults
// rather than a half-applied value.
func decodeViewSettings(raw, slug string, errs *ErrorLog) PostViewSettings {
	v := DefaultPostViewSettings()
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		errs.DataWarning(fmt.Sprintf("post %q view settings", slug), err)
		return DefaultPostViewSettings()
	}
	return v
}
