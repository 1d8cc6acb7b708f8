package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"landing-pages-backend/internal/models"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/logger"
	"landing-pages-backend/pkg/navigation"
	"landing-pages-backend/pkg/utils"
)

const baseLayout = "base.html"

// BuildNavigation lays out the header menu: home, the allow-listed pages in
// order, and the listing pages. The services entry gets one child per
// service in the hierarchy.
func BuildNavigation(pages []models.StaticPage, groups []models.ServiceGroup) []navigation.Item {
	items := []navigation.Item{{Label: "Home", Path: "/"}}

	for _, page := range pages {
		item := navigation.Item{Label: page.Title, Path: page.Path()}
		if page.Slug == "services" {
			for _, group := range groups {
				parent := navigation.Item{Label: group.Name, Path: page.Path() + "#" + utils.GenerateSlug(group.Name)}
				for _, child := range group.Children {
					parent.Children = append(parent.Children, navigation.Item{
						Label: child.Name,
						Path:  page.Path() + "#" + child.Slug,
					})
				}
				item.Children = append(item.Children, parent)
			}
		}
		items = append(items, item)
	}

	items = append(items,
		navigation.Item{Label: "Jobs", Path: service.JobsPath},
		navigation.Item{Label: "Reviews", Path: service.ReviewsPath},
	)

	return items
}

func (h *TemplateHandler) basePageData(title, description string, extra gin.H) gin.H {
	siteName := strings.TrimSpace(h.config.SiteName)

	fullTitle := title
	if siteName != "" && title != "" && title != siteName {
		fullTitle = fmt.Sprintf("%s - %s", title, siteName)
	} else if title == "" {
		fullTitle = siteName
	}

	if description == "" {
		description = h.config.SiteDescription
	}

	data := gin.H{
		"Title":       fullTitle,
		"Description": description,
		"Site": gin.H{
			"Name":        siteName,
			"Description": h.config.SiteDescription,
			"URL":         h.config.SiteURL,
			"Phone":       h.config.SitePhone,
		},
		"Navigation":    h.navigation,
		"ServiceGroups": h.catalog.ServiceGroups(),
		"Hierarchy":     h.catalog.Hierarchy(),
		"Year":          time.Now().Year(),
	}

	for k, v := range extra {
		data[k] = v
	}

	return data
}

func (h *TemplateHandler) renderTemplate(c *gin.Context, templateName, title, description string, extra gin.H) {
	data := h.basePageData(title, description, extra)
	h.renderWithLayout(c, http.StatusOK, baseLayout, templateName+".html", data)
}

func (h *TemplateHandler) renderWithLayout(c *gin.Context, status int, layout, content string, data gin.H) {
	h.applySEOMetadata(c, data)
	h.setNavigationState(c, data)

	if noIndex, ok := data["NoIndex"].(bool); ok && noIndex {
		c.Header("X-Robots-Tag", "noindex, nofollow")
	}

	output, err := h.renderDocument(c, layout, content, data)
	if err != nil {
		logger.Error(err, "Failed to render page", map[string]interface{}{"template": content, "path": c.Request.URL.Path})
		h.renderError(c, http.StatusInternalServerError)
		return
	}

	c.Data(status, "text/html; charset=utf-8", output)
}

func (h *TemplateHandler) renderDocument(c *gin.Context, layout, content string, data gin.H) ([]byte, error) {
	tmpl, err := h.templateClone(c.Request.Context())
	if err != nil {
		return nil, fmt.Errorf("clone templates: %w", err)
	}

	contentTmpl := tmpl.Lookup(content)
	if contentTmpl == nil {
		return nil, fmt.Errorf("content template %s not found", content)
	}

	buf, err := h.executeTemplate(contentTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", content, err)
	}
	data["Content"] = template.HTML(buf)

	layoutTmpl := tmpl.Lookup(layout)
	if layoutTmpl == nil {
		return nil, fmt.Errorf("layout template %s not found", layout)
	}

	output, err := h.executeTemplate(layoutTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", layout, err)
	}
	return output, nil
}

// renderError renders the dedicated 404 or 500 view. When even that fails
// a plain-text body is written so the status code still reaches the client.
func (h *TemplateHandler) renderError(c *gin.Context, status int) {
	content := "500.html"
	title := "Server Error"
	if status == http.StatusNotFound {
		content = "404.html"
		title = "Page Not Found"
	}

	data := h.basePageData(title, "", gin.H{"StatusCode": status, "NoIndex": true})
	h.setNavigationState(c, data)
	c.Header("X-Robots-Tag", "noindex, nofollow")
	c.Header("Cache-Control", "no-cache")

	output, err := h.renderDocument(c, baseLayout, content, data)
	if err != nil {
		logger.Error(err, "Failed to render error page", map[string]interface{}{"status": status})
		c.String(status, http.StatusText(status))
		return
	}

	c.Data(status, "text/html; charset=utf-8", output)
}

// NotFound renders the 404 view. Used for unmatched routes.
func (h *TemplateHandler) NotFound(c *gin.Context) {
	logger.Warn("Page not found", map[string]interface{}{"path": c.Request.URL.Path})
	h.renderError(c, http.StatusNotFound)
}

// Recovery renders the 500 view after a handler panic.
func (h *TemplateHandler) Recovery(c *gin.Context, recovered any) {
	logger.Error(fmt.Errorf("panic: %v", recovered), "Recovered from panic", map[string]interface{}{"path": c.Request.URL.Path})
	h.renderError(c, http.StatusInternalServerError)
	c.Abort()
}

func (h *TemplateHandler) applySEOMetadata(c *gin.Context, data gin.H) {
	siteURL := strings.TrimSuffix(strings.TrimSpace(h.config.SiteURL), "/")
	if siteURL == "" {
		siteURL = requestBaseURL(c.Request)
	}

	if site, ok := data["Site"].(gin.H); ok {
		site["URL"] = siteURL
	}

	canonical := strings.TrimSpace(getString(data, "Canonical"))
	if canonical == "" {
		canonical = buildCanonicalURL(siteURL, c.Request.URL)
	}
	data["Canonical"] = canonical

	if strings.TrimSpace(getString(data, "OGType")) == "" {
		data["OGType"] = "website"
	}
	if strings.TrimSpace(getString(data, "OGURL")) == "" {
		data["OGURL"] = canonical
	}
	if image := strings.TrimSpace(getString(data, "OGImage")); strings.HasPrefix(image, "/") && !strings.HasPrefix(image, "//") {
		data["OGImage"] = siteURL + image
	}
}

func (h *TemplateHandler) setNavigationState(c *gin.Context, data gin.H) {
	data["ActivePath"] = utils.NormalizePath(c.Request.URL.Path)
}

func requestBaseURL(r *http.Request) string {
	scheme := requestScheme(r)
	host := requestHost(r)
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return ""
	}

	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		first, _, _ := strings.Cut(proto, ",")
		if value := strings.ToLower(strings.TrimSpace(first)); value != "" {
			return value
		}
	}

	if r.TLS != nil {
		return "https"
	}

	return "http"
}

func requestHost(r *http.Request) string {
	if r == nil {
		return ""
	}

	if forwardedHost := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); forwardedHost != "" {
		first, _, _ := strings.Cut(forwardedHost, ",")
		if host := strings.TrimSpace(first); host != "" {
			return host
		}
	}

	if r.Host != "" {
		return r.Host
	}

	if r.URL != nil {
		return r.URL.Host
	}

	return ""
}

// buildCanonicalURL drops the fragment and tracking parameters.
func buildCanonicalURL(base string, requestURL *url.URL) string {
	if requestURL == nil {
		return base + "/"
	}

	cleaned := *requestURL
	cleaned.Fragment = ""

	if query := cleaned.Query(); len(query) > 0 {
		for key := range query {
			lower := strings.ToLower(key)
			if strings.HasPrefix(lower, "utm_") || lower == "fbclid" || lower == "gclid" {
				query.Del(key)
			}
		}
		cleaned.RawQuery = query.Encode()
	}

	path := cleaned.EscapedPath()
	if path == "" {
		path = "/"
	}

	canonical := path
	if cleaned.RawQuery != "" {
		canonical += "?" + cleaned.RawQuery
	}

	return base + canonical
}

func getString(data gin.H, key string) string {
	if value, ok := data[key]; ok {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}

func (h *TemplateHandler) executeTemplate(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
