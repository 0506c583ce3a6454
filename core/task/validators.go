package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wakala/core"
)

var (
	taskStatusTag  = "taskstatus"
	taskStatusText = "invalid task status"
)

// InitValidators registers this package's custom validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(taskStatusTag, taskStatusValidation)
	core.RegisterCustomTranslation(validate, translator, taskStatusTag, taskStatusText)
}

// taskStatusValidation checks that the provided status is one of AllStatuses.
func taskStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}
