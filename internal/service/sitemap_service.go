package service

import "strings"

// SitemapEntry is one <url> element of the sitemap.
type SitemapEntry struct {
	Loc        string
	ChangeFreq string
	Priority   string
}

// Listing paths that are always part of the site besides the static pages.
const (
	ReviewsPath      = "/reviews"
	CombinationsPath = "/combinations"
	JobsPath         = "/jobs"
)

type SitemapService struct {
	catalog *CatalogService
	pages   *StaticPageService
}

func NewSitemapService(catalog *CatalogService, pages *StaticPageService) *SitemapService {
	return &SitemapService{catalog: catalog, pages: pages}
}

// StaticEntries lists the home page, every allow-listed page and the
// listing pages.
func (s *SitemapService) StaticEntries(baseURL string) []SitemapEntry {
	entries := []SitemapEntry{{Loc: joinURL(baseURL, "/"), ChangeFreq: "weekly", Priority: "1.0"}}

	for _, page := range s.pages.All() {
		entries = append(entries, SitemapEntry{Loc: joinURL(baseURL, page.Path()), ChangeFreq: "monthly", Priority: "0.8"})
	}

	for _, listing := range []string{ReviewsPath, CombinationsPath, JobsPath} {
		entries = append(entries, SitemapEntry{Loc: joinURL(baseURL, listing), ChangeFreq: "weekly", Priority: "0.7"})
	}

	return entries
}

// DynamicEntries lists every combination landing page followed by every job
// detail page. No pagination is applied.
func (s *SitemapService) DynamicEntries(baseURL string) []SitemapEntry {
	combinations := s.catalog.Combinations()
	jobs := s.catalog.Jobs()

	entries := make([]SitemapEntry, 0, len(combinations)+len(jobs))
	for _, combination := range combinations {
		entries = append(entries, SitemapEntry{Loc: joinURL(baseURL, combination.Path()), ChangeFreq: "monthly", Priority: "0.6"})
	}
	for _, job := range jobs {
		entries = append(entries, SitemapEntry{Loc: joinURL(baseURL, job.Path()), ChangeFreq: "yearly", Priority: "0.5"})
	}

	return entries
}

// Entries returns the static entries followed by the dynamic ones.
func (s *SitemapService) Entries(baseURL string) []SitemapEntry {
	return append(s.StaticEntries(baseURL), s.DynamicEntries(baseURL)...)
}

func joinURL(base, path string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
