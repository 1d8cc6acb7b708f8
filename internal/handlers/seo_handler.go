package handlers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"landing-pages-backend/internal/config"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/logger"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	sitemap service.SitemapProvider
	config  *config.Config
}

func NewSEOHandler(sitemap service.SitemapProvider, cfg *config.Config) *SEOHandler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &SEOHandler{sitemap: sitemap, config: cfg}
}

// Sitemap lists every static page, every combination and every job in one
// document. It is never paginated.
func (h *SEOHandler) Sitemap(c *gin.Context) {
	baseURL := h.baseURL(c.Request)
	if baseURL == "" {
		c.String(http.StatusInternalServerError, "Unable to determine site URL")
		return
	}

	entries := h.sitemap.Entries(baseURL)
	urls := make([]sitemapURL, 0, len(entries))
	for _, entry := range entries {
		urls = append(urls, sitemapURL{Loc: entry.Loc, ChangeFreq: entry.ChangeFreq, Priority: entry.Priority})
	}

	output, err := xml.Marshal(sitemapURLSet{XMLNS: sitemapNamespace, URLs: urls})
	if err != nil {
		logger.Error(err, "Failed to encode sitemap", nil)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	logger.Info("Sitemap generated", map[string]interface{}{"urls": len(urls)})

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), output...))
}

// Robots allows everything except the form endpoint and points crawlers at
// the sitemap.
func (h *SEOHandler) Robots(c *gin.Context) {
	lines := []string{
		"User-agent: *",
		"Allow: /",
		"Disallow: /submit_contact",
	}

	if baseURL := h.baseURL(c.Request); baseURL != "" {
		lines = append(lines, "Sitemap: "+baseURL+"/sitemap.xml")
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.Join(lines, "\n")+"\n"))
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if configured := strings.TrimSuffix(strings.TrimSpace(h.config.SiteURL), "/"); configured != "" {
		return configured
	}
	return requestBaseURL(r)
}
