package service

import (
	"errors"
	"testing"

	"landing-pages-backend/internal/models"
	"landing-pages-backend/internal/repository"
	"landing-pages-backend/internal/seed"
)

type stubCatalogRepository struct {
	services  []models.Service
	locations []models.Location
	jobs      []models.Job
	reviews   []models.Review
	err       error
}

func (r stubCatalogRepository) Services() ([]models.Service, error) {
	return r.services, r.err
}

func (r stubCatalogRepository) Locations() ([]models.Location, error) {
	return r.locations, nil
}

func (r stubCatalogRepository) Jobs() ([]models.Job, error) {
	return r.jobs, nil
}

func (r stubCatalogRepository) Reviews() ([]models.Review, error) {
	return r.reviews, nil
}

func newStubRepository() stubCatalogRepository {
	return stubCatalogRepository{
		services: []models.Service{
			{Name: "Roofing", Description: "Roofs", IsTopLevel: true},
			{Name: "Repair", Description: "Leaks", Parent: "Roofing"},
			{Name: "Orphan", Description: "Nothing", Parent: "Nonexistent"},
		},
		locations: []models.Location{
			{LocationName: "Towson", CountyName: "Baltimore", AreaCodes: "410"},
			{LocationName: "Bel Air", CountyName: "Harford"},
		},
		jobs: []models.Job{
			{Title: "Slate Roof Restoration", Photos: []string{"a.jpg", "b.jpg"}},
			{Title: "Gutter Rebuild", Photos: []string{}},
		},
		reviews: []models.Review{{}},
	}
}

func TestCatalogServiceExpandsCrossProduct(t *testing.T) {
	svc, err := NewCatalogService(newStubRepository(), CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	combinations := svc.Combinations()
	if len(combinations) != 3*2 {
		t.Fatalf("expected 6 combinations, got %d", len(combinations))
	}

	first := combinations[0]
	if first.ServiceSlug != "roofing" || first.LocationSlug != "towson" || first.CountySlug != "baltimore" {
		t.Fatalf("unexpected first combination: %+v", first)
	}
	if first.Path() != "/baltimore-county/towson/roofing" {
		t.Fatalf("unexpected path: %s", first.Path())
	}
	if combinations[1].LocationSlug != "bel-air" || combinations[1].ServiceSlug != "roofing" {
		t.Fatalf("expected locations to vary fastest, got %+v", combinations[1])
	}
	if combinations[2].ServiceSlug != "repair" {
		t.Fatalf("expected second service after all locations, got %+v", combinations[2])
	}
}

func TestCatalogServiceHierarchy(t *testing.T) {
	svc, err := NewCatalogService(newStubRepository(), CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hierarchy := svc.Hierarchy()
	if len(hierarchy) != 1 {
		t.Fatalf("expected one parent, got %v", hierarchy)
	}
	children := hierarchy["Roofing"]
	if len(children) != 1 || children[0].Name != "Repair" || children[0].Slug != "repair" {
		t.Fatalf("unexpected children: %+v", children)
	}
	if _, ok := hierarchy["Nonexistent"]; ok {
		t.Fatalf("orphaned parent must not appear in hierarchy")
	}

	groups := svc.ServiceGroups()
	if len(groups) != 1 || groups[0].Name != "Roofing" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestCatalogServiceFindCombination(t *testing.T) {
	svc, err := NewCatalogService(newStubRepository(), CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	combination, err := svc.FindCombination("baltimore", "towson", "repair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combination.ServiceName != "Repair" || combination.LocationName != "Towson" || combination.AreaCodes != "410" {
		t.Fatalf("unexpected combination: %+v", combination)
	}

	cases := [][3]string{
		{"harford", "towson", "repair"},
		{"baltimore-county", "towson", "repair"},
		{"baltimore", "towson", "siding"},
		{"", "", ""},
	}
	for _, triple := range cases {
		if _, err := svc.FindCombination(triple[0], triple[1], triple[2]); !errors.Is(err, ErrCombinationNotFound) {
			t.Fatalf("expected ErrCombinationNotFound for %v, got %v", triple, err)
		}
	}
}

func TestCatalogServiceFindJob(t *testing.T) {
	svc, err := NewCatalogService(newStubRepository(), CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, err := svc.FindJob("slate-roof-restoration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Title != "Slate Roof Restoration" || len(job.Photos) != 2 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.Path() != "/job/slate-roof-restoration" {
		t.Fatalf("unexpected job path: %s", job.Path())
	}

	if _, err := svc.FindJob("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestCatalogServiceSlugCollisions(t *testing.T) {
	repo := newStubRepository()
	repo.services = append(repo.services, models.Service{Name: "Roofing!", Description: "Shadowed"})

	if _, err := NewCatalogService(repo, CatalogOptions{StrictSlugs: true}); !errors.Is(err, ErrSlugCollision) {
		t.Fatalf("expected ErrSlugCollision in strict mode, got %v", err)
	}

	svc, err := NewCatalogService(repo, CatalogOptions{StrictSlugs: false})
	if err != nil {
		t.Fatalf("unexpected error in lenient mode: %v", err)
	}
	combination, err := svc.FindCombination("baltimore", "towson", "roofing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combination.ServiceDesc != "Roofs" {
		t.Fatalf("expected first combination to win, got %+v", combination)
	}
}

func TestCatalogServiceJobSlugCollision(t *testing.T) {
	repo := newStubRepository()
	repo.jobs = append(repo.jobs, models.Job{Title: "Gutter  Rebuild!"})

	if _, err := NewCatalogService(repo, CatalogOptions{StrictSlugs: true}); !errors.Is(err, ErrSlugCollision) {
		t.Fatalf("expected ErrSlugCollision for duplicate job slug, got %v", err)
	}
}

func TestCatalogServicePropagatesRepositoryErrors(t *testing.T) {
	repo := newStubRepository()
	repo.err = repository.ErrDatasetNotFound

	if _, err := NewCatalogService(repo, CatalogOptions{}); !errors.Is(err, repository.ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
	if _, err := NewCatalogService(nil, CatalogOptions{}); err == nil {
		t.Fatalf("expected error for nil repository")
	}
}

func TestCatalogServiceLoadsSeedCatalog(t *testing.T) {
	svc, err := NewCatalogService(repository.NewCatalogRepository(seed.CatalogFS()), CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("seed catalog failed to load: %v", err)
	}

	if got, want := len(svc.Combinations()), len(svc.Services())*len(svc.Locations()); got != want {
		t.Fatalf("expected %d combinations, got %d", want, got)
	}
	if len(svc.Jobs()) == 0 || len(svc.Reviews()) == 0 {
		t.Fatalf("expected seed jobs and reviews to load")
	}
}
