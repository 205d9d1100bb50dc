package submission

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/itsite/core"
)

var (
	projectStatusTag  = "projectstatus"
	projectStatusText = "invalid project status"

	registrationStatusTag  = "registrationstatus"
	registrationStatusText = "invalid registration status"
)

func init() {
	_ = core.Validate.RegisterValidation(projectStatusTag, func(fl validator.FieldLevel) bool {
		return ProjectStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(projectStatusTag, projectStatusText)

	_ = core.Validate.RegisterValidation(registrationStatusTag, func(fl validator.FieldLevel) bool {
		return RegistrationStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(registrationStatusTag, registrationStatusText)
}
