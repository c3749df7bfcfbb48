package statica

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite content database. The renderer only ever reads
// rows that are published and not trashed; the write methods exist for
// authoring tools and tests.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode so an authoring process can write while a render pass
	// reads, set a busy timeout so writers wait instead of returning
	// SQLITE_BUSY immediately, and tune cache/mmap to cut disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    author_id INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'published',
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL DEFAULT '',
    template TEXT NOT NULL DEFAULT '',
    excerpt TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT '',
    featured_image_id INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    template TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS posts_tags (
    post_id INTEGER NOT NULL,
    tag_id INTEGER NOT NULL,
    PRIMARY KEY (post_id, tag_id)
);
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    template TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id INTEGER NOT NULL,
    path TEXT NOT NULL,
    alt TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS post_settings (
    post_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (post_id, key)
);
CREATE TABLE IF NOT EXISTS menus (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL,
    link TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

// Posts returns all published posts ordered by id. Content carries the raw
// Markdown body; the content cache converts it to HTML once per pass.
func (s *Store) Posts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT id, slug, title, author_id, created_at, modified_at, template, excerpt, text, featured_image_id
		FROM posts WHERE status = 'published' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.AuthorID, &p.Created, &p.Modified,
			&p.Template, &p.Excerpt, &p.Content, &p.FeaturedImageID); err != nil {
			return nil, err
		}
		p.View = DefaultPostViewSettings()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Tags returns all tags ordered by name, each with its published post count.
// Tags with zero posts are included; suppressing them is a rendering-time
// decision.
func (s *Store) Tags() ([]Tag, error) {
	rows, err := s.db.Query(`SELECT t.id, t.slug, t.name, t.description, t.template,
		(SELECT COUNT(*) FROM posts_tags pt JOIN posts p ON p.id = pt.post_id
			WHERE pt.tag_id = t.id AND p.status = 'published')
		FROM tags t ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &t.Template, &t.PostCount); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Authors returns all authors ordered by username, each with its published
// post count.
func (s *Store) Authors() ([]Author, error) {
	rows, err := s.db.Query(`SELECT a.id, a.username, a.name, a.description, a.template,
		(SELECT COUNT(*) FROM posts p WHERE p.author_id = a.id AND p.status = 'published')
		FROM authors a ORDER BY a.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Username, &a.Name, &a.Description, &a.Template, &a.PostCount); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// PostTags returns the tag ids assigned to each published post.
func (s *Store) PostTags() (map[int64][]int64, error) {
	rows, err := s.db.Query(`SELECT pt.post_id, pt.tag_id FROM posts_tags pt
		JOIN posts p ON p.id = pt.post_id WHERE p.status = 'published'
		ORDER BY pt.post_id, pt.tag_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]int64)
	for rows.Next() {
		var postID, tagID int64
		if err := rows.Scan(&postID, &tagID); err != nil {
			return nil, err
		}
		result[postID] = append(result[postID], tagID)
	}
	return result, rows.Err()
}

// FeaturedImages returns the featured image for each published post that
// declares one, keyed by post id.
func (s *Store) FeaturedImages() (map[int64]FeaturedImage, error) {
	rows, err := s.db.Query(`SELECT i.id, i.post_id, i.path, i.alt, i.caption FROM images i
		JOIN posts p ON p.featured_image_id = i.id WHERE p.status = 'published'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]FeaturedImage)
	for rows.Next() {
		var img FeaturedImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.Path, &img.Alt, &img.Caption); err != nil {
			return nil, err
		}
		result[img.PostID] = img
	}
	return result, rows.Err()
}

// PostSettings returns the raw JSON value stored under key for each
// published post that has one, keyed by post id.
func (s *Store) PostSettings(key string) (map[int64]string, error) {
	rows, err := s.db.Query(`SELECT ps.post_id, ps.value FROM post_settings ps
		JOIN posts p ON p.id = ps.post_id WHERE ps.key = ? AND p.status = 'published'`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]string)
	for rows.Next() {
		var postID int64
		var value string
		if err := rows.Scan(&postID, &value); err != nil {
			return nil, err
		}
		result[postID] = value
	}
	return result, rows.Err()
}

// Menus returns the site navigation entries in display order.
func (s *Store) Menus() ([]MenuItem, error) {
	rows, err := s.db.Query(`SELECT id, label, link, position FROM menus ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Label, &m.Link, &m.Position); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// SavePost inserts p when its ID is zero, otherwise updates the existing
// row. The new or existing id is returned.
func (s *Store) SavePost(p Post, status string) (int64, error) {
	if status == "" {
		status = "published"
	}
	if p.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO posts (slug, title, author_id, status, created_at, modified_at, template, excerpt, text, featured_image_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Title, p.AuthorID, status, p.Created, p.Modified, p.Template, p.Excerpt, p.Content, p.FeaturedImageID)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(`UPDATE posts SET slug = ?, title = ?, author_id = ?, status = ?, created_at = ?, modified_at = ?, template = ?, excerpt = ?, text = ?, featured_image_id = ? WHERE id = ?`,
		p.Slug, p.Title, p.AuthorID, status, p.Created, p.Modified, p.Template, p.Excerpt, p.Content, p.FeaturedImageID, p.ID)
	return p.ID, err
}

// SaveTag inserts or updates a tag and returns its id.
func (s *Store) SaveTag(t Tag) (int64, error) {
	if t.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO tags (slug, name, description, template) VALUES (?, ?, ?, ?)`,
			t.Slug, t.Name, t.Description, t.Template)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(`UPDATE tags SET slug = ?, name = ?, description = ?, template = ? WHERE id = ?`,
		t.Slug, t.Name, t.Description, t.Template, t.ID)
	return t.ID, err
}

// SaveAuthor inserts or updates an author and returns its id.
func (s *Store) SaveAuthor(a Author) (int64, error) {
	if a.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO authors (username, name, description, template) VALUES (?, ?, ?, ?)`,
			a.Username, a.Name, a.Description, a.Template)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(`UPDATE authors SET username = ?, name = ?, description = ?, template = ? WHERE id = ?`,
		a.Username, a.Name, a.Description, a.Template, a.ID)
	return a.ID, err
}

// TagPost assigns a tag to a post. Assigning twice is a no-op.
func (s *Store) TagPost(postID, tagID int64) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO posts_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID)
	return err
}

// SaveImage inserts an image row and returns its id.
func (s *Store) SaveImage(img FeaturedImage) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO images (post_id, path, alt, caption) VALUES (?, ?, ?, ?)`,
		img.PostID, img.Path, img.Alt, img.Caption)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetPostSetting upserts the JSON value stored under key for a post.
func (s *Store) SetPostSetting(postID int64, key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO post_settings (post_id, key, value) VALUES (?, ?, ?)`,
		postID, key, value)
	return err
}

// SaveMenuItem inserts a menu entry and returns its id.
func (s *Store) SaveMenuItem(m MenuItem) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO menus (label, link, position) VALUES (?, ?, ?)`,
		m.Label, m.Link, m.Position)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
