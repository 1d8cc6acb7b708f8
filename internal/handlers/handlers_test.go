package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"landing-pages-backend/internal/config"
	"landing-pages-backend/internal/models"
	"landing-pages-backend/internal/repository"
	"landing-pages-backend/internal/seed"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/utils"
	"landing-pages-backend/web"
)

type stubImagePicker struct {
	mu       sync.Mutex
	keywords []string
}

func (p *stubImagePicker) RandomImage(_ context.Context, keyword string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keywords = append(p.keywords, keyword)
	return "picked.jpg"
}

type failingCatalog struct {
	service.CatalogReader
}

func (failingCatalog) FindJob(string) (*models.Job, error) {
	return nil, errors.New("disk on fire")
}

type testSite struct {
	router  *gin.Engine
	catalog *service.CatalogService
	images  *stubImagePicker
	dir     string
}

func newTestSite(t *testing.T, production bool, wrap func(service.CatalogReader) service.CatalogReader) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := service.NewCatalogService(repository.NewCatalogRepository(seed.CatalogFS()), service.CatalogOptions{StrictSlugs: true})
	if err != nil {
		t.Fatalf("failed to load seed catalog: %v", err)
	}

	templates, err := utils.LoadTemplates(web.Templates(), web.TemplatesDir, utils.GetTemplateFuncs(nil))
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "roof.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	cfg := &config.Config{SiteName: "Acme Exteriors", SiteDescription: "Roofing and restoration", SiteURL: "https://example.com"}
	pages := service.NewStaticPageService(service.DefaultStaticPages)
	assets := service.NewAssetService(dir, "https://cdn.example.com", production)
	images := &stubImagePicker{}

	var reader service.CatalogReader = catalog
	if wrap != nil {
		reader = wrap(catalog)
	}

	templateHandler, err := NewTemplateHandler(reader, pages, images, assets, cfg, templates)
	if err != nil {
		t.Fatalf("failed to build template handler: %v", err)
	}
	seo := NewSEOHandler(service.NewSitemapService(catalog, pages), cfg)
	imageHandler := NewImageHandler(assets, templateHandler.NotFound)

	router := gin.New()
	router.GET("/robots.txt", seo.Robots)
	router.GET("/sitemap.xml", seo.Sitemap)
	router.GET("/images/:filename", imageHandler.Serve)
	router.GET("/", templateHandler.RenderHome)
	router.GET("/jobs", templateHandler.RenderJobs)
	router.GET("/job/:slug", templateHandler.RenderJob)
	router.GET("/reviews", templateHandler.RenderReviews)
	router.GET("/combinations", templateHandler.RenderCombinations)
	router.POST("/submit_contact", templateHandler.SubmitContact)
	router.GET("/:page", templateHandler.RenderStaticPage)
	router.GET("/:page/:location/:service", templateHandler.RenderCombination)
	router.NoRoute(templateHandler.NotFound)

	return &testSite{router: router, catalog: catalog, images: images, dir: dir}
}

func (s *testSite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPagesRender(t *testing.T) {
	site := newTestSite(t, false, nil)

	cases := []struct {
		path     string
		contains string
	}{
		{"/", "Acme Exteriors"},
		{"/about", "About Us"},
		{"/services", `id="roof-repair"`},
		{"/service-area", "Ellicott City, Howard County"},
		{"/permits", "Permits"},
		{"/contact", `action="/submit_contact"`},
		{"/our-work", "/job/colonial-roof-tear-off-in-towson"},
		{"/estimate", "Free Estimate"},
		{"/jobs", "Basement Flood Recovery"},
		{"/reviews", "Dana K."},
		{"/combinations", "/harford-county/bel-air/water-damage-mold"},
	}

	for _, tc := range cases {
		rec := site.get(tc.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tc.path, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: unexpected content type %q", tc.path, ct)
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("%s: expected body to contain %q", tc.path, tc.contains)
		}
	}
}

func TestLayoutCarriesNavigationHierarchy(t *testing.T) {
	site := newTestSite(t, false, nil)
	body := site.get("/about").Body.String()

	for _, want := range []string{
		`href="/services#roofing"`,
		`href="/services#roof-replacement"`,
		`href="/services#water-damage-mold"`,
		`<link rel="canonical" href="https://example.com/about">`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected layout to contain %q", want)
		}
	}
	if strings.Contains(body, "/services#gutter-guards") {
		t.Fatalf("orphaned service must not appear in navigation")
	}
}

func TestUnknownPagesRenderNotFoundView(t *testing.T) {
	site := newTestSite(t, false, nil)

	for _, path := range []string{
		"/admin",
		"/job/does-not-exist",
		"/baltimore-county/towson/siding",
		"/baltimore/towson/roofing",
		"/-county/towson/roofing",
		"/a/b/c/d",
	} {
		rec := site.get(path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Page not found") {
			t.Fatalf("%s: expected dedicated not-found view", path)
		}
	}
}

func TestCombinationDetail(t *testing.T) {
	site := newTestSite(t, false, nil)

	rec := site.get("/baltimore-county/towson/roof-repair")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "Roof Repair in Towson, Baltimore County") {
		t.Fatalf("expected combination heading in body")
	}
	if !strings.Contains(body, "<strong>within 48 hours</strong>") {
		t.Fatalf("expected sanitized description markup to survive")
	}
	if !strings.Contains(body, `src="/images/picked.jpg"`) {
		t.Fatalf("expected random image to be rendered through imageURL")
	}
	if len(site.images.keywords) == 0 || site.images.keywords[0] != "Roof Repair" {
		t.Fatalf("expected service name as image keyword, got %v", site.images.keywords)
	}
}

func TestJobDetail(t *testing.T) {
	site := newTestSite(t, false, nil)

	rec := site.get("/job/colonial-roof-tear-off-in-towson")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"towson-roof-2.jpg", "2023-09-01", "<p>Removed two layers"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected job page to contain %q", want)
		}
	}
}

func TestJobDetailServerError(t *testing.T) {
	site := newTestSite(t, false, func(c service.CatalogReader) service.CatalogReader {
		return failingCatalog{CatalogReader: c}
	})

	rec := site.get("/job/colonial-roof-tear-off-in-towson")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong") {
		t.Fatalf("expected dedicated server-error view")
	}
}

func TestSubmitContactEchoesFields(t *testing.T) {
	site := newTestSite(t, false, nil)

	form := url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
		"phone":      {"410-555-0100"},
		"message":    {"<script>alert(1)</script>"},
	}
	req := httptest.NewRequest(http.MethodPost, "/submit_contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	site.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Thank you, Ada!", "Ada Lovelace", "ada@example.com", "410-555-0100"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected confirmation to contain %q", want)
		}
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("message must be escaped when echoed")
	}
	if rec.Header().Get("X-Robots-Tag") == "" {
		t.Fatalf("expected confirmation to be marked noindex")
	}
}

func TestSubmitContactAcceptsEmptyForm(t *testing.T) {
	site := newTestSite(t, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit_contact", nil)
	rec := httptest.NewRecorder()
	site.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected empty submission to be echoed, got %d", rec.Code)
	}
}

func TestSitemap(t *testing.T) {
	site := newTestSite(t, false, nil)

	rec := site.get("/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	body := rec.Body.String()
	expected := 1 + len(service.DefaultStaticPages) + 3 + len(site.catalog.Combinations()) + len(site.catalog.Jobs())
	if got := strings.Count(body, "<url>"); got != expected {
		t.Fatalf("expected %d urls, got %d", expected, got)
	}
	if !strings.Contains(body, "<loc>https://example.com/howard-county/ellicott-city/gutter-guards</loc>") {
		t.Fatalf("expected combination url in sitemap")
	}
}

func TestRobots(t *testing.T) {
	site := newTestSite(t, false, nil)

	body := site.get("/robots.txt").Body.String()
	if !strings.Contains(body, "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("expected sitemap reference, got %q", body)
	}
}

func TestImagesDevelopment(t *testing.T) {
	site := newTestSite(t, false, nil)

	rec := site.get("/images/roof.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("unexpected image body %q", rec.Body.String())
	}

	for _, path := range []string{"/images/missing.jpg", "/images/..", "/images/..%5Croof.jpg", "/images/..%2Froof.jpg"} {
		rec := site.get(path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestImagesProductionRedirect(t *testing.T) {
	site := newTestSite(t, true, nil)

	rec := site.get("/images/roof.jpg")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://cdn.example.com/roof.jpg" {
		t.Fatalf("unexpected redirect target %q", got)
	}

	if rec := site.get("/images/..%5Cetc"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected traversal to be rejected in production, got %d", rec.Code)
	}
}
