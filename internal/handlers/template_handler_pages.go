package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"landing-pages-backend/internal/models"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/logger"
)

const countySuffix = "-county"

func (h *TemplateHandler) RenderHome(c *gin.Context) {
	logger.Info("Home page accessed", nil)

	h.renderTemplate(c, "home", h.config.SiteName, h.config.SiteDescription, gin.H{
		"Services": h.catalog.Services(),
		"Reviews":  h.catalog.Reviews(),
	})
}

// RenderStaticPage serves one of the allow-listed content pages.
func (h *TemplateHandler) RenderStaticPage(c *gin.Context) {
	slug := c.Param("page")

	page, err := h.pages.Get(slug)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			logger.Warn("Unknown static page requested", map[string]interface{}{"page": slug})
			h.renderError(c, http.StatusNotFound)
			return
		}
		logger.Error(err, "Failed to resolve static page", map[string]interface{}{"page": slug})
		h.renderError(c, http.StatusInternalServerError)
		return
	}

	logger.Info("Static page accessed", map[string]interface{}{"page": page.Slug})

	h.renderTemplate(c, page.Slug, page.Title, page.Description, gin.H{
		"Page":      page,
		"Services":  h.catalog.Services(),
		"Locations": h.catalog.Locations(),
		"Jobs":      h.catalog.Jobs(),
	})
}

func (h *TemplateHandler) RenderJobs(c *gin.Context) {
	logger.Info("Jobs page accessed", nil)

	h.renderTemplate(c, "jobs", "Our Jobs", "Completed projects and recent work.", gin.H{
		"Jobs": h.catalog.Jobs(),
	})
}

func (h *TemplateHandler) RenderJob(c *gin.Context) {
	slug := c.Param("slug")

	job, err := h.catalog.FindJob(slug)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			logger.Warn("Job not found", map[string]interface{}{"slug": slug})
			h.renderError(c, http.StatusNotFound)
			return
		}
		logger.Error(err, "Failed to resolve job", map[string]interface{}{"slug": slug})
		h.renderError(c, http.StatusInternalServerError)
		return
	}

	logger.Info("Job detail accessed", map[string]interface{}{"slug": job.Slug})

	h.renderTemplate(c, "job_detail", job.Title, job.Fields.Get("Content"), gin.H{
		"Job":       job,
		"JobPhotos": job.Photos,
		"OGImage":   h.imageURL(job.CoverPhoto()),
		"OGType":    "article",
	})
}

func (h *TemplateHandler) RenderReviews(c *gin.Context) {
	logger.Info("Reviews page accessed", nil)

	h.renderTemplate(c, "reviews", "Reviews", "What our customers say.", gin.H{
		"Reviews": h.catalog.Reviews(),
	})
}

func (h *TemplateHandler) RenderCombinations(c *gin.Context) {
	logger.Info("Combinations page accessed", nil)

	h.renderTemplate(c, "combinations", "Service Locations", "Every service in every town we cover.", gin.H{
		"Combinations": h.catalog.Combinations(),
	})
}

// RenderCombination serves /<county>-county/<location>/<service>. The first
// segment shares its route with the static pages, so the -county suffix is
// required here.
func (h *TemplateHandler) RenderCombination(c *gin.Context) {
	first := c.Param("page")
	locationSlug := c.Param("location")
	serviceSlug := c.Param("service")

	countySlug, ok := strings.CutSuffix(first, countySuffix)
	if !ok || countySlug == "" {
		logger.Warn("Combination path without county segment", map[string]interface{}{"path": c.Request.URL.Path})
		h.renderError(c, http.StatusNotFound)
		return
	}

	combination, err := h.catalog.FindCombination(countySlug, locationSlug, serviceSlug)
	if err != nil {
		if errors.Is(err, service.ErrCombinationNotFound) {
			logger.Warn("Combination not found", map[string]interface{}{
				"county":   countySlug,
				"location": locationSlug,
				"service":  serviceSlug,
			})
			h.renderError(c, http.StatusNotFound)
			return
		}
		logger.Error(err, "Failed to resolve combination", map[string]interface{}{"path": c.Request.URL.Path})
		h.renderError(c, http.StatusInternalServerError)
		return
	}

	logger.Info("Combination page accessed", map[string]interface{}{"path": combination.Path()})

	title := combination.ServiceName + " in " + combination.LocationName + ", " + combination.CountyName + " County"
	h.renderTemplate(c, "combination_detail", title, combination.ServiceDesc, gin.H{
		"Combination": combination,
		"Children":    h.catalog.Hierarchy()[combination.ServiceName],
	})
}

// SubmitContact echoes the contact form back. Nothing is validated or
// stored; the message body is left out of the log.
func (h *TemplateHandler) SubmitContact(c *gin.Context) {
	var submission models.ContactSubmission
	if err := c.ShouldBind(&submission); err != nil {
		logger.Warn("Failed to bind contact form", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Contact form submitted", map[string]interface{}{
		"name":  submission.FullName(),
		"email": submission.Email,
		"phone": submission.Phone,
	})

	h.renderTemplate(c, "submit_contact", "Thank You", "", gin.H{
		"Contact": submission,
		"NoIndex": true,
	})
}

func (h *TemplateHandler) imageURL(filename string) string {
	if filename == "" || h.assets == nil {
		return ""
	}
	return h.assets.URL(filename)
}
