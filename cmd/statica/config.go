package main

import (
	"errors"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/statica"
)

// fileConfig is the on-disk shape of statica.yml. Every key can also be set
// through the environment as STATICA_<KEY> with dots replaced by underscores,
// so STATICA_OUTPUT overrides output and STATICA_LOG_LEVEL overrides
// log_level.
type fileConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	URL         string `mapstructure:"url" default:"http://localhost:3000"`

	Database string `mapstructure:"database" default:"data/site.db"`
	Theme    string `mapstructure:"theme" default:"theme"`
	Output   string `mapstructure:"output" default:"output"`
	Media    string `mapstructure:"media" default:"media"`

	CleanURLs     bool   `mapstructure:"clean_urls"`
	TrailingIndex bool   `mapstructure:"trailing_index"`
	TagsPrefix    string `mapstructure:"tags_prefix"`
	AuthorsPrefix string `mapstructure:"authors_prefix" default:"authors"`
	PageSegment   string `mapstructure:"page_segment" default:"page"`

	AMP bool `mapstructure:"amp"`

	PostsPerPage       int `mapstructure:"posts_per_page" default:"5"`
	TagPostsPerPage    int `mapstructure:"tag_posts_per_page" default:"5"`
	AuthorPostsPerPage int `mapstructure:"author_posts_per_page" default:"5"`

	DisplayEmptyTags    bool `mapstructure:"display_empty_tags"`
	DisplayEmptyAuthors bool `mapstructure:"display_empty_authors"`

	FeedItems   int   `mapstructure:"feed_items" default:"10"`
	ImageWidths []int `mapstructure:"image_widths"`

	LogLevel  string `mapstructure:"log_level" default:"info"`
	LogFormat string `mapstructure:"log_format" default:"console"`
}

// loadConfig reads statica.yml (or the file given with --config), layered
// under .env and STATICA_* environment variables. A missing config file is
// fine; defaults and the environment carry the run.
func loadConfig(file string) (*fileConfig, error) {
	_ = godotenv.Overload(".env")

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	bindDefaults(v, fileConfig{})
	v.SetEnvPrefix("STATICA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// bindDefaults walks the struct tags and registers every key with its
// default value, which also makes the key visible to AutomaticEnv.
func bindDefaults(v *viper.Viper, iface any) {
	t := reflect.TypeOf(iface)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		dv := field.Tag.Get("default")
		switch field.Type.Kind() {
		case reflect.Int:
			n, _ := strconv.Atoi(dv)
			v.SetDefault(tag, n)
		case reflect.Bool:
			b, _ := strconv.ParseBool(dv)
			v.SetDefault(tag, b)
		default:
			v.SetDefault(tag, dv)
		}
	}
}

func (fc *fileConfig) siteConfig() statica.SiteConfig {
	return statica.SiteConfig{
		Name:        fc.Name,
		Description: fc.Description,
		URL:         fc.URL,

		DatabasePath: fc.Database,
		ThemeDir:     fc.Theme,
		OutputDir:    fc.Output,
		MediaDir:     fc.Media,

		CleanURLs:     fc.CleanURLs,
		TrailingIndex: fc.TrailingIndex,
		TagsPrefix:    fc.TagsPrefix,
		AuthorsPrefix: fc.AuthorsPrefix,
		PageSegment:   fc.PageSegment,

		AMP: fc.AMP,

		PostsPerPage:       fc.PostsPerPage,
		TagPostsPerPage:    fc.TagPostsPerPage,
		AuthorPostsPerPage: fc.AuthorPostsPerPage,

		DisplayEmptyTags:    fc.DisplayEmptyTags,
		DisplayEmptyAuthors: fc.DisplayEmptyAuthors,

		FeedItemCount: fc.FeedItems,
		ImageWidths:   fc.ImageWidths,
	}
}
