package webserver

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/internal/app"
	"github.com/craftbond/sitecms/internal/cms"
)

// feedCache holds rendered feed bodies until content changes. Invalidation
// rides the content-changed event published by the cms services.
type feedCache struct {
	appctx  app.AppContext
	mu      sync.RWMutex
	entries map[string][]byte
}

func newFeedCache(appctx app.AppContext) *feedCache {
	fc := &feedCache{
		appctx:  appctx,
		entries: map[string][]byte{},
	}
	if bus := appctx.Bus(); bus != nil {
		if err := bus.Subscribe(cms.TopicContentChanged, func(kind string) {
			fc.purge()
		}); err != nil {
			zap.L().Warn("feed cache subscription failed", zap.Error(err))
		}
	}
	return fc
}

func (fc *feedCache) purge() {
	fc.mu.Lock()
	fc.entries = map[string][]byte{}
	fc.mu.Unlock()
}

func (fc *feedCache) get(key string) ([]byte, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	body, ok := fc.entries[key]
	return body, ok
}

func (fc *feedCache) put(key string, body []byte) {
	fc.mu.Lock()
	fc.entries[key] = body
	fc.mu.Unlock()
}

func (s *WebServer) registerFeedRoutes() {
	s.pub.GET("/sitemap.xml", s.handleSitemap)
	s.pub.GET("/rss.xml", s.handleRSS)
	s.pub.GET("/feeds/products.xml", s.handleProductFeed)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (s *WebServer) handleSitemap(c echo.Context) error {
	return s.serveFeed(c, "sitemap", s.buildSitemap)
}

func (s *WebServer) buildSitemap(ctx context.Context) ([]byte, error) {
	base := s.appctx.Config().Web.SiteURL

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/"},
			{Loc: base + "/products"},
			{Loc: base + "/blogs"},
			{Loc: base + "/contact"},
		},
	}

	products, _, err := s.appctx.Products().List(ctx, cms.ProductFilter{IsActive: active()}, 1, 500)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/productDetails/%s", base, p.Slug),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}

	blogs, _, err := s.appctx.Blogs().List(ctx, 1, 500)
	if err != nil {
		return nil, err
	}
	for _, b := range blogs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/blogDetails/%s", base, b.Slug),
			LastMod: b.UpdatedAt.Format("2006-01-02"),
		})
	}

	return xml.MarshalIndent(set, "", "  ")
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

func (s *WebServer) handleRSS(c echo.Context) error {
	return s.serveFeed(c, "rss", s.buildRSS)
}

func (s *WebServer) buildRSS(ctx context.Context) ([]byte, error) {
	cfg := s.appctx.Config()
	base := cfg.Web.SiteURL

	blogs, _, err := s.appctx.Blogs().List(ctx, 1, 50)
	if err != nil {
		return nil, err
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.System.Appname,
			Link:        base,
			Description: "Latest posts",
		},
	}
	for _, b := range blogs {
		link := fmt.Sprintf("%s/blogDetails/%s", base, b.Slug)
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       b.Title,
			Link:        link,
			Description: b.Description,
			PubDate:     b.CreatedAt.Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	return xml.MarshalIndent(feed, "", "  ")
}

type feedProduct struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Image       string `xml:"image,omitempty"`
}

type productFeed struct {
	XMLName  xml.Name      `xml:"products"`
	Products []feedProduct `xml:"product"`
}

func (s *WebServer) handleProductFeed(c echo.Context) error {
	return s.serveFeed(c, "products", s.buildProductFeed)
}

func (s *WebServer) buildProductFeed(ctx context.Context) ([]byte, error) {
	base := s.appctx.Config().Web.SiteURL

	products, _, err := s.appctx.Products().List(ctx, cms.ProductFilter{IsActive: active()}, 1, 500)
	if err != nil {
		return nil, err
	}

	var feed productFeed
	for _, p := range products {
		item := feedProduct{
			Title:       p.Title,
			Link:        fmt.Sprintf("%s/productDetails/%s", base, p.Slug),
			Description: p.Description,
		}
		if len(p.Images) > 0 {
			item.Image = fmt.Sprintf("%s/uploads/%s", base, p.Images[0])
		}
		feed.Products = append(feed.Products, item)
	}

	return xml.MarshalIndent(feed, "", "  ")
}

func (s *WebServer) serveFeed(c echo.Context, key string, build func(context.Context) ([]byte, error)) error {
	if body, ok := s.feeds.get(key); ok {
		return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, body)
	}
	body, err := build(c.Request().Context())
	if err != nil {
		return err
	}
	body = append([]byte(xml.Header), body...)
	s.feeds.put(key, body)
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, body)
}
