package service

import "landing-pages-backend/internal/models"

// DefaultStaticPages is the allow-list of content pages served at /<slug>.
var DefaultStaticPages = []models.StaticPage{
	{Slug: "about", Title: "About Us", Description: "Who we are and how we work."},
	{Slug: "services", Title: "Services", Description: "Everything we build, repair and restore."},
	{Slug: "service-area", Title: "Service Area", Description: "Counties and towns we serve."},
	{Slug: "permits", Title: "Permits", Description: "How we handle permits and inspections."},
	{Slug: "contact", Title: "Contact", Description: "Get in touch with our office."},
	{Slug: "our-work", Title: "Our Work", Description: "Recent projects and before-and-after photos."},
	{Slug: "estimate", Title: "Free Estimate", Description: "Request a free, no-obligation estimate."},
}

type StaticPageService struct {
	pages []models.StaticPage
	index map[string]int
}

func NewStaticPageService(pages []models.StaticPage) *StaticPageService {
	s := &StaticPageService{
		pages: pages,
		index: make(map[string]int, len(pages)),
	}
	for i, page := range pages {
		if _, exists := s.index[page.Slug]; !exists {
			s.index[page.Slug] = i
		}
	}
	return s
}

// Get returns the allow-listed page with the given slug.
func (s *StaticPageService) Get(slug string) (*models.StaticPage, error) {
	i, ok := s.index[slug]
	if !ok {
		return nil, ErrPageNotFound
	}
	page := s.pages[i]
	return &page, nil
}

func (s *StaticPageService) All() []models.StaticPage {
	return s.pages
}
