package controllers

import (
	"encoding/xml"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/app/repository"
	"github.com/loftlabs/loft/internal/pkg/cache"
	"github.com/loftlabs/loft/internal/pkg/env"
)

const feedLength = 20
const feedCacheTTL = 5 * time.Minute

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

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomEntry struct {
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Content atomContent `xml:"content"`
}

type atomXML struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Entries []atomEntry `xml:"entry"`
}

// HandleFeedRSS serves the published entries as RSS 2.0. The rendered
// feed is cached briefly so feed readers do not hammer the store.
func HandleFeedRSS(c *fiber.Ctx) error {
	return serveFeed(c, "feed:rss", "application/rss+xml; charset=utf-8", buildRSS)
}

// HandleFeedAtom serves the published entries as Atom.
func HandleFeedAtom(c *fiber.Ctx) error {
	return serveFeed(c, "feed:atom", "application/atom+xml; charset=utf-8", buildAtom)
}

func serveFeed(c *fiber.Ctx, cacheKey, contentType string, build func([]models.Entry, string) (interface{}, error)) error {
	c.Set(fiber.HeaderContentType, contentType)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		return c.SendString(cached)
	}

	entries, err := repository.GetGlobalRepositories().Entry.GetPublished(time.Now(), 0, feedLength)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to build feed")
	}

	feed, err := build(entries, env.GetEnv("SITE_URL", "http://localhost:4000"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to build feed")
	}

	raw, err := xml.Marshal(feed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to build feed")
	}
	body := xml.Header + string(raw)

	// Best effort: the feed still serves when the cache is down.
	_ = cache.Set(cacheKey, body, feedCacheTTL)

	return c.SendString(body)
}

func buildRSS(entries []models.Entry, base string) (interface{}, error) {
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		link := base + "/entry/" + e.Slug
		items = append(items, rssItem{
			Title:       e.Title,
			Link:        link,
			Description: e.BodyHTML,
			PubDate:     e.PublishedOrCreated().Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       env.GetEnv("SITE_NAME", "Loft"),
			Link:        base,
			Description: env.GetEnv("SITE_DESCRIPTION", ""),
			Items:       items,
		},
	}, nil
}

func buildAtom(entries []models.Entry, base string) (interface{}, error) {
	updated := time.Now()
	if len(entries) > 0 {
		updated = entries[0].PublishedOrCreated()
	}

	atomEntries := make([]atomEntry, 0, len(entries))
	for _, e := range entries {
		link := base + "/entry/" + e.Slug
		atomEntries = append(atomEntries, atomEntry{
			Title:   e.Title,
			Link:    atomLink{Href: link},
			ID:      link,
			Updated: e.PublishedOrCreated().Format(time.RFC3339),
			Content: atomContent{Type: "html", Body: e.BodyHTML},
		})
	}

	return atomXML{
		Xmlns:   "http://www.w3.org/2005/Atom",
		Title:   env.GetEnv("SITE_NAME", "Loft"),
		Link:    atomLink{Href: base},
		ID:      base + "/",
		Updated: updated.Format(time.RFC3339),
		Entries: atomEntries,
	}, nil
}
