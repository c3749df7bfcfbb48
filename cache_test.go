package statica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCacheSnapshot(t *testing.T) {
	s := newTestStore(t)

	annID, err := s.SaveAuthor(Author{Username: "ann", Name: "Ann"})
	require.NoError(t, err)
	goID, err := s.SaveTag(Tag{Slug: "go", Name: "Go"})
	require.NoError(t, err)

	p1, err := s.SavePost(Post{Slug: "one", Title: "One", Created: "2026-01-01", AuthorID: annID, Content: "**bold**"}, "published")
	require.NoError(t, err)
	p2, err := s.SavePost(Post{Slug: "two", Title: "Two", Created: "2026-01-02", AuthorID: annID, Content: "plain"}, "published")
	require.NoError(t, err)
	require.NoError(t, s.TagPost(p1, goID))

	var errs ErrorLog
	cache, err := BuildCache(s, &errs)
	require.NoError(t, err)
	assert.True(t, errs.Empty())

	require.Len(t, cache.Posts, 2)
	assert.Contains(t, cache.Posts[0].Content, "<strong>bold</strong>",
		"post bodies are HTML by the time the cache is built")

	require.Len(t, cache.PostList, 2)
	assert.Same(t, &cache.Posts[0], cache.PostList[0])

	assert.Same(t, &cache.Posts[0], cache.PostByID[p1])
	assert.Same(t, &cache.Posts[1], cache.PostByID[p2])

	require.Len(t, cache.TagPosts[goID], 1)
	assert.Equal(t, "one", cache.TagPosts[goID][0].Slug)

	require.Len(t, cache.AuthorPosts[annID], 2)
	assert.Equal(t, "one", cache.AuthorPosts[annID][0].Slug)

	tags := cache.TagsForPost(p1)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Slug)
	assert.Empty(t, cache.TagsForPost(p2))
}

func TestBuildCacheAppliesViewSettings(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SavePost(Post{Slug: "p", Title: "P", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	require.NoError(t, s.SetPostSetting(id, "view", `{"displayAuthor":false,"futureKey":1}`))

	var errs ErrorLog
	cache, err := BuildCache(s, &errs)
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unknown keys are ignored, not errors")

	view := cache.PostByID[id].View
	assert.False(t, view.DisplayAuthor)
	assert.True(t, view.DisplayFeaturedImage, "unset keys keep their defaults")
	assert.True(t, view.DisplayShareButtons)
}

func TestBuildCacheRecoversMalformedViewSettings(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SavePost(Post{Slug: "p", Title: "P", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	require.NoError(t, s.SetPostSetting(id, "view", `{not json`))

	var errs ErrorLog
	cache, err := BuildCache(s, &errs)
	require.NoError(t, err, "malformed settings are a warning, not a build failure")

	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Entries()[0].Message, "view settings")
	assert.Equal(t, DefaultPostViewSettings(), cache.PostByID[id].View)
}

func TestRelatedPosts(t *testing.T) {
	s := newTestStore(t)

	goID, err := s.SaveTag(Tag{Slug: "go", Name: "Go"})
	require.NoError(t, err)
	dbID, err := s.SaveTag(Tag{Slug: "db", Name: "DB"})
	require.NoError(t, err)

	p1, err := s.SavePost(Post{Slug: "one", Title: "One", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	p2, err := s.SavePost(Post{Slug: "two", Title: "Two", Created: "2026-01-02"}, "published")
	require.NoError(t, err)
	p3, err := s.SavePost(Post{Slug: "three", Title: "Three", Created: "2026-01-03"}, "published")
	require.NoError(t, err)

	require.NoError(t, s.TagPost(p1, goID))
	require.NoError(t, s.TagPost(p2, goID))
	require.NoError(t, s.TagPost(p3, dbID))

	var errs ErrorLog
	cache, err := BuildCache(s, &errs)
	require.NoError(t, err)

	related := RelatedPosts(cache.PostByID[p1], cache)
	require.Len(t, related, 1)
	assert.Equal(t, "two", related[0].Slug)

	assert.Empty(t, RelatedPosts(cache.PostByID[p3], cache))
}
