package content

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/itsite/core"
)

var (
	cardTypeTag  = "cardtype"
	cardTypeText = "invalid card type"

	listTypeTag  = "listtype"
	listTypeText = "invalid list type"
)

func init() {
	_ = core.Validate.RegisterValidation(cardTypeTag, func(fl validator.FieldLevel) bool {
		return CardType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(cardTypeTag, cardTypeText)

	_ = core.Validate.RegisterValidation(listTypeTag, func(fl validator.FieldLevel) bool {
		return ListType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(listTypeTag, listTypeText)
}
