package statica

// ListingKind identifies a category of generated page.
type ListingKind string

const (
	KindHome   ListingKind = "home"
	KindPost   ListingKind = "post"
	KindTag    ListingKind = "tag"
	KindAuthor ListingKind = "author"
)

// Post is the core content type stored in SQLite and rendered by templates.
// Content holds the HTML produced from the stored Markdown at cache build.
type Post struct {
	ID              int64
	Slug            string
	Title           string
	Created         string
	Modified        string
	Excerpt         string
	Content         string
	AuthorID        int64
	Template        string // theme template override, empty for default
	FeaturedImageID int64
	View            PostViewSettings
}

// Tag groups posts under a shared label.
type Tag struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	Template    string
	PostCount   int
}

// Author is a content author. Username doubles as the URL slug.
type Author struct {
	ID          int64
	Username    string
	Name        string
	Description string
	Template    string
	PostCount   int
}

// FeaturedImage is the lead image attached to a post. Path is relative to
// the site media directory.
type FeaturedImage struct {
	ID      int64
	PostID  int64
	Path    string
	Alt     string
	Caption string
}

// MenuItem is one entry of the site navigation menu.
type MenuItem struct {
	ID       int64
	Label    string
	Link     string
	Position int
}

// PostViewSettings is the typed form of a post's JSON view settings.
// Unknown keys are ignored; missing keys keep their defaults.
type PostViewSettings struct {
	DisplayFeaturedImage bool `json:"displayFeaturedImage"`
	DisplayAuthor        bool `json:"displayAuthor"`
	DisplayShareButtons  bool `json:"displayShareButtons"`
}

// DefaultPostViewSettings returns the settings applied when a post declares
// none, or when its stored JSON cannot be decoded.
func DefaultPostViewSettings() PostViewSettings {
	return PostViewSettings{
		DisplayFeaturedImage: true,
		DisplayAuthor:        true,
		DisplayShareButtons:  true,
	}
}
