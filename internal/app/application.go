package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landing-pages-backend/internal/config"
	"landing-pages-backend/internal/handlers"
	"landing-pages-backend/internal/middleware"
	"landing-pages-backend/internal/repository"
	"landing-pages-backend/internal/seed"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/cache"
	"landing-pages-backend/pkg/logger"
	"landing-pages-backend/pkg/utils"
	"landing-pages-backend/web"
)

// Options overrides the filesystems the application reads from. Zero values
// select the configured catalog directory (or the embedded seed catalog) and
// the embedded web assets.
type Options struct {
	CatalogFS   fs.FS
	TemplatesFS fs.FS
	StaticFS    fs.FS
	HTTPClient  *http.Client
}

type Application struct {
	cfg     *config.Config
	options Options

	cache       *cache.Cache
	rateLimiter *middleware.RateLimitManager

	services serviceContainer
	handlers handlerContainer

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Catalog *service.CatalogService
	Pages   *service.StaticPageService
	Sitemap *service.SitemapService
	Assets  *service.AssetService
	Images  *service.ImageService
}

type handlerContainer struct {
	Template *handlers.TemplateHandler
	SEO      *handlers.SEOHandler
	Image    *handlers.ImageHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if opts.TemplatesFS == nil {
		opts.TemplatesFS = web.Templates()
	}
	if opts.StaticFS == nil {
		opts.StaticFS = web.Static()
	}

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	app.initCache()

	if err := app.initServices(); err != nil {
		return nil, err
	}

	if err := app.initHandlers(); err != nil {
		return nil, err
	}

	app.initRouter()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

// Shutdown stops the server, then the rate limiter and the cache. Every
// step runs even when an earlier one fails; the errors are joined.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}

	if a.rateLimiter != nil {
		if err := a.rateLimiter.Shutdown(); err != nil {
			logger.Error(err, "Failed to stop rate limiter", nil)
			errs = append(errs, fmt.Errorf("stop rate limiter: %w", err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

// initCache connects to Redis when enabled. A failed connection only
// disables caching of image lookups.
func (a *Application) initCache() {
	var err error
	if a.cfg.EnableRedis {
		a.cache, err = cache.NewCache(a.cfg.RedisURL, true)
		if err == nil {
			logger.Info("Redis cache enabled", map[string]interface{}{"addr": a.cfg.RedisURL})
			return
		}
		logger.Error(err, "Redis unavailable, image lookups will not be cached", nil)
	}
	a.cache, _ = cache.NewCache("", false)
}

func (a *Application) catalogFS() fs.FS {
	if a.options.CatalogFS != nil {
		return a.options.CatalogFS
	}
	if dir := strings.TrimSpace(a.cfg.CatalogDir); dir != "" {
		logger.Info("Loading catalog from directory", map[string]interface{}{"dir": dir})
		return os.DirFS(dir)
	}
	logger.Info("Loading embedded seed catalog", nil)
	return seed.CatalogFS()
}

func (a *Application) initServices() error {
	catalog, err := service.NewCatalogService(
		repository.NewCatalogRepository(a.catalogFS()),
		service.CatalogOptions{StrictSlugs: a.cfg.CatalogStrictSlugs},
	)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	pages := service.NewStaticPageService(service.DefaultStaticPages)

	a.services = serviceContainer{
		Catalog: catalog,
		Pages:   pages,
		Sitemap: service.NewSitemapService(catalog, pages),
		Assets:  service.NewAssetService(a.cfg.ImageDir, a.cfg.ImageCDNURL, a.cfg.IsProduction()),
		Images: service.NewImageService(service.ImageServiceOptions{
			BaseURL:    a.cfg.ImageIndexURL,
			Timeout:    a.cfg.ImageIndexTimeout,
			Fallback:   a.cfg.ImageFallback,
			Cache:      a.cache,
			CacheTTL:   a.cfg.ImageIndexCacheTTL,
			HTTPClient: a.options.HTTPClient,
		}),
	}

	return nil
}

func (a *Application) initHandlers() error {
	funcs := utils.GetTemplateFuncs(func(path string) (time.Time, error) {
		info, err := fs.Stat(a.options.StaticFS, strings.TrimPrefix(strings.TrimPrefix(path, "/static"), "/"))
		if err != nil {
			return time.Time{}, err
		}
		return info.ModTime(), nil
	})

	templates, err := utils.LoadTemplates(a.options.TemplatesFS, web.TemplatesDir, funcs)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	logger.Info("Templates loaded successfully", map[string]interface{}{"count": len(templates.Templates())})

	templateHandler, err := handlers.NewTemplateHandler(
		a.services.Catalog,
		a.services.Pages,
		a.services.Images,
		a.services.Assets,
		a.cfg,
		templates,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize template handler: %w", err)
	}

	a.handlers = handlerContainer{
		Template: templateHandler,
		SEO:      handlers.NewSEOHandler(a.services.Sitemap, a.cfg),
		Image:    handlers.NewImageHandler(a.services.Assets, templateHandler.NotFound),
	}

	return nil
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(
		context.Background(),
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		a.cfg.RateLimitBurst,
	)

	pages := a.handlers.Template

	router := gin.New()
	router.Use(gin.CustomRecovery(pages.Recovery))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.rateLimiter))

	router.Use(cors.New(cors.Config{
		AllowOrigins:  a.cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.CacheControlMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(a.cfg.ImageCDNURL))

	router.GET("/health", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"time":         time.Now().Format(time.RFC3339),
			"combinations": len(a.services.Catalog.Combinations()),
		})
	})

	if a.cfg.EnableMetrics {
		metrics := promhttp.Handler()
		router.GET("/metrics", func(c *gin.Context) {
			c.Header("Cache-Control", "no-store")
			metrics.ServeHTTP(c.Writer, c.Request)
		})
	}

	router.StaticFS("/static", http.FS(a.options.StaticFS))
	router.GET("/robots.txt", a.handlers.SEO.Robots)
	router.GET("/sitemap.xml", a.handlers.SEO.Sitemap)
	router.GET("/images/:filename", a.handlers.Image.Serve)

	router.GET("/", pages.RenderHome)
	router.GET(service.JobsPath, pages.RenderJobs)
	router.GET("/job/:slug", pages.RenderJob)
	router.GET(service.ReviewsPath, pages.RenderReviews)
	router.GET(service.CombinationsPath, pages.RenderCombinations)
	router.POST("/submit_contact", middleware.NoIndexMiddleware(), pages.SubmitContact)

	// Static pages and combination pages share the first path segment.
	router.GET("/:page", pages.RenderStaticPage)
	router.GET("/:page/:location/:service", pages.RenderCombination)

	router.NoRoute(pages.NotFound)

	a.router = router
}
