package handlers

import (
	"context"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"landing-pages-backend/internal/config"
	"landing-pages-backend/internal/service"
	"landing-pages-backend/pkg/navigation"
)

// TemplateHandler renders every HTML view of the site.
type TemplateHandler struct {
	catalog    service.CatalogReader
	pages      service.StaticPageProvider
	images     service.ImagePicker
	assets     service.AssetLocator
	templates  *template.Template
	config     *config.Config
	sanitizer  *bluemonday.Policy
	navigation []navigation.Item
}

func NewTemplateHandler(
	catalog service.CatalogReader,
	pages service.StaticPageProvider,
	images service.ImagePicker,
	assets service.AssetLocator,
	cfg *config.Config,
	templates *template.Template,
) (*TemplateHandler, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	if catalog == nil || pages == nil {
		return nil, fmt.Errorf("catalog and static pages are required")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()

	handler := &TemplateHandler{
		catalog:   catalog,
		pages:     pages,
		images:    images,
		assets:    assets,
		templates: templates,
		config:    cfg,
		sanitizer: policy,
	}
	handler.navigation = BuildNavigation(pages.All(), catalog.ServiceGroups())

	return handler, nil
}

// templateClone returns a private copy of the template set with the
// request-bound helpers attached.
func (h *TemplateHandler) templateClone(ctx context.Context) (*template.Template, error) {
	tmpl, err := h.templates.Clone()
	if err != nil {
		return nil, err
	}

	return tmpl.Funcs(template.FuncMap{
		"randomImage": func(keyword string) string {
			if h.images == nil {
				return service.DefaultImageFallback
			}
			return h.images.RandomImage(ctx, keyword)
		},
		"imageURL": func(filename string) string {
			if h.assets == nil {
				return "/images/" + filename
			}
			return h.assets.URL(filename)
		},
		"sanitize": func(value string) template.HTML {
			return template.HTML(h.sanitizer.Sanitize(value))
		},
	}), nil
}
