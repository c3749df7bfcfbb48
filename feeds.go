package statica

import (
	"bytes"
	"encoding/xml"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// writeFeed persists feed.xml with the newest posts of the standard pass.
// Posts are cached in id order, so the newest entries sit at the end.
func writeFeed(pc *passContext) error {
	cfg := pc.cfg
	count := cfg.FeedItemCount
	if count > len(pc.cache.PostList) {
		count = len(pc.cache.PostList)
	}

	items := make([]rssItem, 0, count)
	for i := len(pc.cache.PostList) - 1; i >= len(pc.cache.PostList)-count; i-- {
		p := pc.cache.PostList[i]
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Created); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL, _ := PageURL(KindPost, p.Slug, 1, cfg)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(feed); err != nil {
		return err
	}
	return pc.emitter.WriteFile("feed.xml", buf.Bytes())
}
