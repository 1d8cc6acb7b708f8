package service

import (
	"fmt"

	"landing-pages-backend/internal/models"
	"landing-pages-backend/internal/repository"
	"landing-pages-backend/pkg/logger"
	"landing-pages-backend/pkg/utils"
)

type CatalogOptions struct {
	// StrictSlugs makes duplicate slug triples or job slugs a load error.
	// When false the first row wins and the shadowed rows are logged.
	StrictSlugs bool
}

type combinationKey struct {
	county   string
	location string
	service  string
}

// CatalogService holds the catalog and everything derived from it. It is
// built once and never mutated afterwards, so it is safe to share between
// requests; slices it returns must be treated as read-only.
type CatalogService struct {
	services      []models.Service
	locations     []models.Location
	combinations  []models.Combination
	serviceGroups []models.ServiceGroup
	hierarchy     map[string][]models.ChildService
	jobs          []models.Job
	reviews       []models.Review

	combinationIndex map[combinationKey]int
	jobIndex         map[string]int
}

func NewCatalogService(repo repository.CatalogRepository, opts CatalogOptions) (*CatalogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}

	services, err := repo.Services()
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	locations, err := repo.Locations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	jobs, err := repo.Jobs()
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	reviews, err := repo.Reviews()
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	for i := range jobs {
		jobs[i].Slug = utils.GenerateSlug(jobs[i].Title)
	}

	groups := BuildServiceHierarchy(services)

	s := &CatalogService{
		services:      services,
		locations:     locations,
		combinations:  ExpandCombinations(services, locations),
		serviceGroups: groups,
		hierarchy:     HierarchyMap(groups),
		jobs:          jobs,
		reviews:       reviews,
	}

	if err := s.buildIndexes(opts.StrictSlugs); err != nil {
		return nil, err
	}

	logger.Info("Catalog loaded", map[string]interface{}{
		"services":     len(s.services),
		"locations":    len(s.locations),
		"combinations": len(s.combinations),
		"jobs":         len(s.jobs),
		"reviews":      len(s.reviews),
	})

	return s, nil
}

func (s *CatalogService) buildIndexes(strict bool) error {
	s.combinationIndex = make(map[combinationKey]int, len(s.combinations))
	for i, combination := range s.combinations {
		key := combinationKey{
			county:   combination.CountySlug,
			location: combination.LocationSlug,
			service:  combination.ServiceSlug,
		}
		if first, exists := s.combinationIndex[key]; exists {
			shadowed := s.combinations[first]
			if strict {
				return fmt.Errorf("%w: %q/%q shadows %q/%q at %s", ErrSlugCollision,
					combination.ServiceName, combination.LocationName,
					shadowed.ServiceName, shadowed.LocationName, combination.Path())
			}
			logger.Warn("Combination slug collision, keeping first", map[string]interface{}{
				"path":     combination.Path(),
				"kept":     shadowed.ServiceName + " / " + shadowed.LocationName,
				"shadowed": combination.ServiceName + " / " + combination.LocationName,
			})
			continue
		}
		s.combinationIndex[key] = i
	}

	s.jobIndex = make(map[string]int, len(s.jobs))
	for i, job := range s.jobs {
		if first, exists := s.jobIndex[job.Slug]; exists {
			if strict {
				return fmt.Errorf("%w: job %q shadows %q at %s", ErrSlugCollision, job.Title, s.jobs[first].Title, job.Path())
			}
			logger.Warn("Job slug collision, keeping first", map[string]interface{}{
				"path":     job.Path(),
				"kept":     s.jobs[first].Title,
				"shadowed": job.Title,
			})
			continue
		}
		s.jobIndex[job.Slug] = i
	}

	return nil
}

// FindCombination resolves a landing page by its slug triple.
func (s *CatalogService) FindCombination(countySlug, locationSlug, serviceSlug string) (*models.Combination, error) {
	index, ok := s.combinationIndex[combinationKey{county: countySlug, location: locationSlug, service: serviceSlug}]
	if !ok {
		return nil, ErrCombinationNotFound
	}
	combination := s.combinations[index]
	return &combination, nil
}

// FindJob resolves a job by the slug of its title.
func (s *CatalogService) FindJob(slug string) (*models.Job, error) {
	index, ok := s.jobIndex[slug]
	if !ok {
		return nil, ErrJobNotFound
	}
	job := s.jobs[index]
	return &job, nil
}

func (s *CatalogService) Services() []models.Service {
	return s.services
}

func (s *CatalogService) Locations() []models.Location {
	return s.locations
}

func (s *CatalogService) Combinations() []models.Combination {
	return s.combinations
}

// ServiceGroups returns the navigation hierarchy in dataset order.
func (s *CatalogService) ServiceGroups() []models.ServiceGroup {
	return s.serviceGroups
}

// Hierarchy returns the navigation hierarchy keyed by parent name.
func (s *CatalogService) Hierarchy() map[string][]models.ChildService {
	return s.hierarchy
}

func (s *CatalogService) Jobs() []models.Job {
	return s.jobs
}

func (s *CatalogService) Reviews() []models.Review {
	return s.reviews
}
