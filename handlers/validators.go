package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerValidators sync.Once

// RegisterValidators adds the custom rules used in form binding tags
func RegisterValidators() {
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// bindingErrors converts binding failures to one message per form field
func bindingErrors(err error, fieldNames map[string]string) map[string]string {
	result := map[string]string{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		result["__all__"] = err.Error()
		return result
	}
	for _, fe := range validationErrors {
		name, ok := fieldNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "email":
			result[name] = "Enter a valid email address."
		case "max":
			result[name] = "Ensure this value has at most " + fe.Param() + " characters."
		case "min":
			result[name] = "Ensure this value has at least " + fe.Param() + " characters."
		default:
			result[name] = "This field is required."
		}
	}
	return result
}
