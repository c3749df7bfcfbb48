package statica

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeThemeFiles materializes a theme fixture. Keys are slash-separated
// paths relative to the theme root.
func writeThemeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, src := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
}

func minimalThemeFiles() map[string]string {
	return map[string]string{
		"theme.yml":  "name: minimal\n",
		"home.hbs":   "<h1>{{@site.title}}</h1>",
		"post.hbs":   "<article>{{{content}}}</article>",
		"tag.hbs":    "<h1>{{tag.name}}</h1>",
		"author.hbs": "<h1>{{author.name}}</h1>",
	}
}

func TestLoadThemeMinimal(t *testing.T) {
	dir := t.TempDir()
	writeThemeFiles(t, dir, minimalThemeFiles())

	theme, err := LoadTheme(dir)
	require.NoError(t, err)
	assert.Equal(t, "minimal", theme.Name)
	assert.False(t, theme.Create404Page)
	assert.False(t, theme.CreateSearchPage)
	assert.False(t, theme.AMPEnabled)
	for _, kind := range templateKinds {
		assert.Empty(t, theme.Variants[kind])
	}
}

func TestLoadThemeNameDefaultsToDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "paper")
	files := minimalThemeFiles()
	files["theme.yml"] = "{}\n" // a descriptor without a name is valid
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err)
	assert.Equal(t, "paper", theme.Name)
}

func TestLoadThemeVariants(t *testing.T) {
	dir := t.TempDir()
	files := minimalThemeFiles()
	files["theme.yml"] = `name: fancy
templates:
  post: [wide]
  tag: [special]
`
	files["post-wide.hbs"] = "<article class=wide>{{{content}}}</article>"
	files["tag-special.hbs"] = "<h1 class=special>{{tag.name}}</h1>"
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err)
	assert.True(t, theme.Variants[KindPost].Has("wide"))
	assert.True(t, theme.Variants[KindTag].Has("special"))
	assert.False(t, theme.Variants[KindPost].Has("special"))
	assert.Empty(t, theme.Variants[KindHome])
}

func TestLoadThemeRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(files map[string]string)
	}{
		{"unknown listing kind", func(f map[string]string) {
			f["theme.yml"] = "templates:\n  gallery: [grid]\n"
		}},
		{"redeclared default", func(f map[string]string) {
			f["theme.yml"] = "templates:\n  post: [default]\n"
		}},
		{"empty variant slug", func(f map[string]string) {
			f["theme.yml"] = "templates:\n  post: [\"\"]\n"
		}},
		{"slug with path separator", func(f map[string]string) {
			f["theme.yml"] = "templates:\n  post: [\"../evil\"]\n"
		}},
		{"unknown descriptor field", func(f map[string]string) {
			f["theme.yml"] = "name: x\ncolour: blue\n"
		}},
		{"missing default template", func(f map[string]string) {
			delete(f, "author.hbs")
		}},
		{"missing variant template", func(f map[string]string) {
			f["theme.yml"] = "templates:\n  post: [wide]\n"
		}},
		{"amp enabled without amp templates", func(f map[string]string) {
			f["theme.yml"] = "amp: true\n"
		}},
		{"missing declared 404 page", func(f map[string]string) {
			f["theme.yml"] = "create404page: true\n"
		}},
		{"missing declared search page", func(f map[string]string) {
			f["theme.yml"] = "createSearchPage: true\n"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files := minimalThemeFiles()
			tt.mutate(files)
			writeThemeFiles(t, dir, files)

			_, err := LoadTheme(dir)
			require.Error(t, err)
			var cerr *ConfigError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestResolveSlug(t *testing.T) {
	dir := t.TempDir()
	files := minimalThemeFiles()
	files["theme.yml"] = "templates:\n  post: [wide]\n"
	files["post-wide.hbs"] = "wide"
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err)

	assert.Equal(t, "default", theme.ResolveSlug(KindPost, ""))
	assert.Equal(t, "wide", theme.ResolveSlug(KindPost, "wide"))
	assert.Equal(t, "default", theme.ResolveSlug(KindPost, "nonexistent"))
	assert.Equal(t, "default", theme.ResolveSlug(KindTag, "wide"), "variants are per kind")
}

func TestTemplateFilePaths(t *testing.T) {
	theme := &Theme{Dir: "mytheme"}

	assert.Equal(t, filepath.Join("mytheme", "post.hbs"), theme.TemplateFile(KindPost, "default", false))
	assert.Equal(t, filepath.Join("mytheme", "post-wide.hbs"), theme.TemplateFile(KindPost, "wide", false))
	assert.Equal(t, filepath.Join("mytheme", "amp", "post.hbs"), theme.TemplateFile(KindPost, "wide", true))
	assert.Equal(t, filepath.Join("mytheme", "404.hbs"), theme.ExtraTemplateFile("404"))
}

func TestTemplateCachePrepareFailsFastOnBrokenVariant(t *testing.T) {
	dir := t.TempDir()
	files := minimalThemeFiles()
	files["theme.yml"] = "templates:\n  post: [broken]\n"
	files["post-broken.hbs"] = "{{#if x}}never closed"
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err, "descriptor validation checks existence, not syntax")

	tc := newTemplateCache(theme, false)
	err = tc.prepare(KindPost, []string{"broken"})
	require.Error(t, err, "a requested variant that does not compile is fatal for its kind")
}

func TestTemplateCacheUseTimeMissFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	writeThemeFiles(t, dir, minimalThemeFiles())

	theme, err := LoadTheme(dir)
	require.NoError(t, err)

	tc := newTemplateCache(theme, false)
	require.NoError(t, tc.prepare(KindPost, nil))

	def := tc.templateFor(KindPost, DefaultTemplate)
	require.NotNil(t, def)
	assert.Same(t, def, tc.templateFor(KindPost, "never-compiled"),
		"an unresolved slug degrades to the default handle, not an error")
}

func TestTemplateCacheCompileMemoized(t *testing.T) {
	dir := t.TempDir()
	writeThemeFiles(t, dir, minimalThemeFiles())

	theme, err := LoadTheme(dir)
	require.NoError(t, err)

	tc := newTemplateCache(theme, false)
	first, err := tc.compile(KindHome, DefaultTemplate)
	require.NoError(t, err)
	second, err := tc.compile(KindHome, DefaultTemplate)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTemplateCacheAMPCompilesDefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	files := minimalThemeFiles()
	files["theme.yml"] = "amp: true\ntemplates:\n  post: [wide]\n"
	files["post-wide.hbs"] = "wide"
	files["amp/home.hbs"] = "amp home"
	files["amp/post.hbs"] = "amp post"
	files["amp/tag.hbs"] = "amp tag"
	files["amp/author.hbs"] = "amp author"
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err)

	tc := newTemplateCache(theme, true)
	require.NoError(t, tc.prepare(KindPost, []string{"wide"}))

	def := tc.templateFor(KindPost, DefaultTemplate)
	assert.Same(t, def, tc.templateFor(KindPost, "wide"),
		"the accelerated mode never compiles variants; entities degrade to the default")

	out, err := def.Exec(map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "amp post", out)
}

func TestThemePartialsRegisteredOnCompile(t *testing.T) {
	dir := t.TempDir()
	files := minimalThemeFiles()
	files["home.hbs"] = "<main>{{> footer}}</main>"
	files["partials/footer.hbs"] = "<footer>fin</footer>"
	writeThemeFiles(t, dir, files)

	theme, err := LoadTheme(dir)
	require.NoError(t, err)

	tc := newTemplateCache(theme, false)
	tpl, err := tc.compile(KindHome, DefaultTemplate)
	require.NoError(t, err)

	out, err := tpl.Exec(map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "<main><footer>fin</footer></main>", out)
}
