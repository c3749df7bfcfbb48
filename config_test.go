package statica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	assert.Equal(t, "Site", cfg.Name)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, "authors", cfg.AuthorsPrefix)
	assert.Equal(t, "page", cfg.PageSegment)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.Equal(t, 10, cfg.FeedItemCount)
	assert.Equal(t, []int{320, 768}, cfg.ImageWidths)
	assert.Empty(t, cfg.TagsPrefix, "tags have no prefix unless configured")
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := SiteConfig{
		Name:         "My Blog",
		PostsPerPage: -1,
		TagsPrefix:   "topics",
	}
	cfg.setDefaults()

	assert.Equal(t, "My Blog", cfg.Name)
	assert.Equal(t, -1, cfg.PostsPerPage, "the unlimited sentinel survives defaulting")
	assert.Equal(t, "topics", cfg.TagsPrefix)
}

func TestValidate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.validate())

	bad := cfg
	bad.URL = "  "
	err := bad.validate()
	require.Error(t, err)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "invalid configuration")

	bad = cfg
	bad.PageSegment = ""
	assert.Error(t, bad.validate())

	bad = cfg
	bad.ThemeDir = ""
	assert.Error(t, bad.validate())
}

func TestPageSizeFor(t *testing.T) {
	cfg := testConfig()
	cfg.PostsPerPage = 7
	cfg.TagPostsPerPage = 3
	cfg.AuthorPostsPerPage = -1

	assert.Equal(t, 7, cfg.pageSizeFor(KindHome))
	assert.Equal(t, 3, cfg.pageSizeFor(KindTag))
	assert.Equal(t, -1, cfg.pageSizeFor(KindAuthor))
}

func TestErrorLog(t *testing.T) {
	var log ErrorLog
	assert.True(t, log.Empty())

	log.CompileError(KindTag, "special", assert.AnError)
	log.RenderError("tag/special", assert.AnError)
	log.DataWarning("post \"x\" view settings", assert.AnError)

	require.Equal(t, 3, log.Len())
	entries := log.Entries()
	assert.Contains(t, entries[0].Message, "compile tag template")
	assert.Contains(t, entries[1].Message, "render tag/special")
	assert.Contains(t, entries[2].Message, "data warning")
	assert.False(t, log.Empty())
}
