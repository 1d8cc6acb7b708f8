package service

import (
	"context"

	"landing-pages-backend/internal/models"
)

// CatalogReader is the read side of the catalog used by the page handlers.
type CatalogReader interface {
	FindCombination(countySlug, locationSlug, serviceSlug string) (*models.Combination, error)
	FindJob(slug string) (*models.Job, error)
	Services() []models.Service
	Locations() []models.Location
	Combinations() []models.Combination
	ServiceGroups() []models.ServiceGroup
	Hierarchy() map[string][]models.ChildService
	Jobs() []models.Job
	Reviews() []models.Review
}

type ImagePicker interface {
	RandomImage(ctx context.Context, keyword string) string
}

type AssetLocator interface {
	Production() bool
	LocalPath(filename string) (string, error)
	RemoteURL(filename string) (string, error)
	URL(filename string) string
}

type StaticPageProvider interface {
	Get(slug string) (*models.StaticPage, error)
	All() []models.StaticPage
}

type SitemapProvider interface {
	Entries(baseURL string) []SitemapEntry
}

var (
	_ CatalogReader      = (*CatalogService)(nil)
	_ ImagePicker        = (*ImageService)(nil)
	_ AssetLocator       = (*AssetService)(nil)
	_ StaticPageProvider = (*StaticPageService)(nil)
	_ SitemapProvider    = (*SitemapService)(nil)
)
