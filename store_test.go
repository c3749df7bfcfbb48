package statica

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePostRoundtrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SavePost(Post{
		Slug:    "first",
		Title:   "First Post",
		Created: "2026-01-10",
		Excerpt: "opening words",
		Content: "# Hello",
	}, "")
	require.NoError(t, err)
	require.Positive(t, id)

	posts, err := s.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Slug)
	assert.Equal(t, "# Hello", posts[0].Content, "the store hands out raw Markdown")
	assert.Equal(t, DefaultPostViewSettings(), posts[0].View)

	posts[0].Title = "First Post, Revised"
	updatedID, err := s.SavePost(posts[0], "published")
	require.NoError(t, err)
	assert.Equal(t, id, updatedID)

	posts, err = s.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "First Post, Revised", posts[0].Title)
}

func TestStoreExcludesUnpublishedPosts(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SavePost(Post{Slug: "live", Title: "Live", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	_, err = s.SavePost(Post{Slug: "draft", Title: "Draft", Created: "2026-01-02"}, "draft")
	require.NoError(t, err)

	posts, err := s.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)
}

func TestStoreTagCountsOnlyPublished(t *testing.T) {
	s := newTestStore(t)

	tagID, err := s.SaveTag(Tag{Slug: "go", Name: "Go"})
	require.NoError(t, err)
	emptyID, err := s.SaveTag(Tag{Slug: "rust", Name: "Rust"})
	require.NoError(t, err)

	liveID, err := s.SavePost(Post{Slug: "live", Title: "Live", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	draftID, err := s.SavePost(Post{Slug: "draft", Title: "Draft", Created: "2026-01-02"}, "draft")
	require.NoError(t, err)

	require.NoError(t, s.TagPost(liveID, tagID))
	require.NoError(t, s.TagPost(draftID, tagID))
	require.NoError(t, s.TagPost(liveID, tagID), "re-tagging is a no-op")

	tags, err := s.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 2)

	byID := map[int64]Tag{}
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	assert.Equal(t, 1, byID[tagID].PostCount)
	assert.Equal(t, 0, byID[emptyID].PostCount)

	postTags, err := s.PostTags()
	require.NoError(t, err)
	assert.Equal(t, []int64{tagID}, postTags[liveID])
	assert.NotContains(t, postTags, draftID)
}

func TestStoreAuthorsOrderedByUsername(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveAuthor(Author{Username: "zoe", Name: "Zoe"})
	require.NoError(t, err)
	annID, err := s.SaveAuthor(Author{Username: "ann"})
	require.NoError(t, err)
	_, err = s.SavePost(Post{Slug: "p", Title: "P", Created: "2026-01-01", AuthorID: annID}, "published")
	require.NoError(t, err)

	authors, err := s.Authors()
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "ann", authors[0].Username)
	assert.Equal(t, 1, authors[0].PostCount)
	assert.Equal(t, "zoe", authors[1].Username)
	assert.Equal(t, 0, authors[1].PostCount)
}

func TestStoreFeaturedImages(t *testing.T) {
	s := newTestStore(t)

	postID, err := s.SavePost(Post{Slug: "p", Title: "P", Created: "2026-01-01"}, "published")
	require.NoError(t, err)
	imgID, err := s.SaveImage(FeaturedImage{PostID: postID, Path: "lead.jpg", Alt: "lead"})
	require.NoError(t, err)

	// Link the post to its featured image.
	posts, err := s.Posts()
	require.NoError(t, err)
	posts[0].FeaturedImageID = imgID
	_, err = s.SavePost(posts[0], "published")
	require.NoError(t, err)

	featured, err := s.FeaturedImages()
	require.NoError(t, err)
	require.Contains(t, featured, postID)
	assert.Equal(t, "lead.jpg", featured[postID].Path)
	assert.Equal(t, "lead", featured[postID].Alt)
}

func TestStorePostSettings(t *testing.T) {
	s := newTestStore(t)

	postID, err := s.SavePost(Post{Slug: "p", Title: "P", Created: "2026-01-01"}, "published")
	require.NoError(t, err)

	require.NoError(t, s.SetPostSetting(postID, "view", `{"displayAuthor":false}`))
	require.NoError(t, s.SetPostSetting(postID, "view", `{"displayAuthor":true}`))

	settings, err := s.PostSettings("view")
	require.NoError(t, err)
	assert.Equal(t, `{"displayAuthor":true}`, settings[postID], "setting twice replaces the value")

	other, err := s.PostSettings("other")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStoreMenusOrderedByPosition(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveMenuItem(MenuItem{Label: "About", Link: "/about", Position: 2})
	require.NoError(t, err)
	_, err = s.SaveMenuItem(MenuItem{Label: "Home", Link: "/", Position: 1})
	require.NoError(t, err)

	menus, err := s.Menus()
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "Home", menus[0].Label)
	assert.Equal(t, "About", menus[1].Label)
}
