package course

import (
	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-slug"

	"github.com/trezcool/itsite/core"
)

var (
	slugTag  = "slug"
	slugText = "must be lowercase letters, digits and dashes"
)

func init() {
	_ = core.Validate.RegisterValidation(slugTag, func(fl validator.FieldLevel) bool {
		return slug.IsValid(fl.Field().String())
	})
	core.RegisterCustomTranslation(slugTag, slugText)
}
