package statica

import (
	"bytes"
	"encoding/xml"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// writeSitemap persists sitemap.xml listing every canonical URL the
// standard pass wrote, in emission order. It runs once, after emission
// completes; AMP twins and the error/search pages are excluded.
func writeSitemap(pc *passContext) error {
	urls := make([]sitemapURL, 0, len(pc.urls))
	for _, u := range pc.urls {
		urls = append(urls, sitemapURL{Loc: u})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemap); err != nil {
		return err
	}
	return pc.emitter.WriteFile("sitemap.xml", buf.Bytes())
}
