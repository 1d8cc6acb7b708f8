package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"landing-pages-backend/pkg/utils"
)

// New returns a validator with the catalog rules registered.
func New() *validator.Validate {
	v := validator.New()
	registerCustomValidations(v)
	return v
}

// Init registers the custom rules on gin's binding engine as well.
func Init() {
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("slugifiable", validateSlugifiable)
	_ = v.RegisterValidation("no_html", validateNoHTML)
}

// validateSlugifiable rejects names that normalize to an empty slug, since
// they cannot be addressed by URL.
func validateSlugifiable(fl validator.FieldLevel) bool {
	return utils.GenerateSlug(fl.Field().String()) != ""
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}
