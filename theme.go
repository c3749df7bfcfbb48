package statica

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"gopkg.in/yaml.v3"
)

// DefaultTemplate is the template slug every listing kind can always
// resolve. Theme variants may never redeclare it.
const DefaultTemplate = "default"

// themeDescriptorFile is the descriptor filename inside a theme directory.
const themeDescriptorFile = "theme.yml"

// VariantSet is the set of non-default template variants a theme declares
// for one listing kind.
type VariantSet map[string]struct{}

// Has reports whether slug is a declared variant.
func (s VariantSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Theme is a validated theme: its descriptor plus the variant sets used for
// template resolution. Construction rejects malformed descriptors so later
// lookups cannot surprise-fail.
type Theme struct {
	Name             string
	Dir              string
	Create404Page    bool
	CreateSearchPage bool
	AMPEnabled       bool
	Variants         map[ListingKind]VariantSet

	partials map[string]string
}

type themeDescriptor struct {
	Name             string              `yaml:"name"`
	Create404Page    bool                `yaml:"create404page"`
	CreateSearchPage bool                `yaml:"createSearchPage"`
	AMP              bool                `yaml:"amp"`
	Templates        map[string][]string `yaml:"templates"`
}

var templateKinds = []ListingKind{KindHome, KindPost, KindTag, KindAuthor}

// LoadTheme reads and validates the theme descriptor in dir. Every declared
// variant and every default template must exist on disk; a descriptor that
// references a missing file is rejected here, before any generation begins.
func LoadTheme(dir string) (*Theme, error) {
	raw, err := os.ReadFile(filepath.Join(dir, themeDescriptorFile))
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("read theme descriptor: %v", err)}
	}
	var desc themeDescriptor
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("parse theme descriptor: %v", err)}
	}
	if desc.Name == "" {
		desc.Name = filepath.Base(dir)
	}

	t := &Theme{
		Name:             desc.Name,
		Dir:              dir,
		Create404Page:    desc.Create404Page,
		CreateSearchPage: desc.CreateSearchPage,
		AMPEnabled:       desc.AMP,
		Variants:         make(map[ListingKind]VariantSet, len(templateKinds)),
	}
	for _, kind := range templateKinds {
		t.Variants[kind] = VariantSet{}
	}

	for key, slugs := range desc.Templates {
		kind := ListingKind(key)
		set, ok := t.Variants[kind]
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("theme declares templates for unknown listing kind %q", key)}
		}
		for _, slug := range slugs {
			if strings.TrimSpace(slug) == "" {
				return nil, &ConfigError{Reason: fmt.Sprintf("theme declares an empty %s variant", kind)}
			}
			if slug == DefaultTemplate {
				return nil, &ConfigError{Reason: fmt.Sprintf("theme redeclares the default %s template", kind)}
			}
			if strings.ContainsAny(slug, "/\\.") {
				return nil, &ConfigError{Reason: fmt.Sprintf("invalid %s variant slug %q", kind, slug)}
			}
			set[slug] = struct{}{}
		}
	}

	// Variant sets are fully validated against disk at load time.
	for _, kind := range templateKinds {
		if err := t.requireTemplate(t.TemplateFile(kind, DefaultTemplate, false)); err != nil {
			return nil, err
		}
		if desc.AMP {
			if err := t.requireTemplate(t.TemplateFile(kind, DefaultTemplate, true)); err != nil {
				return nil, err
			}
		}
		for slug := range t.Variants[kind] {
			if err := t.requireTemplate(t.TemplateFile(kind, slug, false)); err != nil {
				return nil, err
			}
		}
	}
	if t.Create404Page {
		if err := t.requireTemplate(t.ExtraTemplateFile("404")); err != nil {
			return nil, err
		}
	}
	if t.CreateSearchPage {
		if err := t.requireTemplate(t.ExtraTemplateFile("search")); err != nil {
			return nil, err
		}
	}

	if err := t.loadPartials(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Theme) requireTemplate(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ConfigError{Reason: fmt.Sprintf("theme %q is missing template %s", t.Name, filepath.Base(path))}
	}
	return nil
}

// loadPartials reads partials/*.hbs once; partial sources are registered on
// every compiled template.
func (t *Theme) loadPartials() error {
	t.partials = make(map[string]string)
	matches, err := filepath.Glob(filepath.Join(t.Dir, "partials", "*.hbs"))
	if err != nil {
		return &ConfigError{Reason: fmt.Sprintf("list theme partials: %v", err)}
	}
	for _, match := range matches {
		src, err := os.ReadFile(match)
		if err != nil {
			return &ConfigError{Reason: fmt.Sprintf("read theme partial %s: %v", filepath.Base(match), err)}
		}
		name := strings.TrimSuffix(filepath.Base(match), ".hbs")
		t.partials[name] = string(src)
	}
	return nil
}

// ResolveSlug returns the entity's override slug when the theme declares a
// same-named variant for the kind; any unknown or empty override resolves to
// the default.
func (t *Theme) ResolveSlug(kind ListingKind, override string) string {
	if override == "" {
		return DefaultTemplate
	}
	if t.Variants[kind].Has(override) {
		return override
	}
	return DefaultTemplate
}

// TemplateFile returns the on-disk template path for a kind and slug. The
// accelerated-twin tree ships default templates only, under amp/.
func (t *Theme) TemplateFile(kind ListingKind, slug string, amp bool) string {
	if amp {
		return filepath.Join(t.Dir, "amp", string(kind)+".hbs")
	}
	if slug == DefaultTemplate {
		return filepath.Join(t.Dir, string(kind)+".hbs")
	}
	return filepath.Join(t.Dir, string(kind)+"-"+slug+".hbs")
}

// ExtraTemplateFile returns the path of a standalone page template such as
// 404 or search.
func (t *Theme) ExtraTemplateFile(name string) string {
	return filepath.Join(t.Dir, name+".hbs")
}

// templateCache is the lazy, slug-keyed compiled-template cache for one
// pass and one output mode. Compilation happens at most once per slug.
type templateCache struct {
	theme    *Theme
	amp      bool
	compiled map[string]*raymond.Template
}

func newTemplateCache(theme *Theme, amp bool) *templateCache {
	return &templateCache{
		theme:    theme,
		amp:      amp,
		compiled: make(map[string]*raymond.Template),
	}
}

func (tc *templateCache) cacheKey(kind ListingKind, slug string) string {
	return string(kind) + "/" + slug
}

// compile parses the template for (kind, slug) and memoizes the handle.
func (tc *templateCache) compile(kind ListingKind, slug string) (*raymond.Template, error) {
	key := tc.cacheKey(kind, slug)
	if tpl, ok := tc.compiled[key]; ok {
		return tpl, nil
	}
	path := tc.theme.TemplateFile(kind, slug, tc.amp)
	tpl, err := raymond.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for name, src := range tc.theme.partials {
		tpl.RegisterPartial(name, src)
	}
	tc.compiled[key] = tpl
	return tpl, nil
}

// compileExtra parses a standalone page template such as 404 or search.
func (tc *templateCache) compileExtra(name string) (*raymond.Template, error) {
	tpl, err := raymond.ParseFile(tc.theme.ExtraTemplateFile(name))
	if err != nil {
		return nil, err
	}
	for pname, src := range tc.theme.partials {
		tpl.RegisterPartial(pname, src)
	}
	return tpl, nil
}

// prepare compiles the default template for a kind plus every requested
// variant slug, failing fast before any entity is emitted. The AMP mode
// compiles the default only; entity-resolved variants degrade to the default
// at use time instead.
func (tc *templateCache) prepare(kind ListingKind, slugs []string) error {
	if _, err := tc.compile(kind, DefaultTemplate); err != nil {
		return err
	}
	if tc.amp {
		return nil
	}
	seen := map[string]struct{}{DefaultTemplate: {}}
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		if _, err := tc.compile(kind, slug); err != nil {
			return err
		}
	}
	return nil
}

// templateFor returns the compiled handle for an already-resolved slug. A
// cache miss silently substitutes the default template rather than failing;
// compile-time absence of a requested variant is fatal in prepare, but a
// use-time miss only degrades that entity to the default rendering.
func (tc *templateCache) templateFor(kind ListingKind, slug string) *raymond.Template {
	if tpl, ok := tc.compiled[tc.cacheKey(kind, slug)]; ok {
		return tpl
	}
	return tc.compiled[tc.cacheKey(kind, DefaultTemplate)]
}
