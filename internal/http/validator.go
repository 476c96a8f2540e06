package http

import (
	"fmt"
	"strings"

	"github.com/csandman/audnexus/internal/entity"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("asin", validateAsin)
	_ = validate.RegisterValidation("region", validateRegion)
	_ = validate.RegisterValidation("search_name", validateSearchName)
}

func validateAsin(fl validator.FieldLevel) bool {
	return entity.ValidateAsin(fl.Field().String())
}

func validateRegion(fl validator.FieldLevel) bool {
	return entity.ValidateRegion(fl.Field().String())
}

func validateSearchName(fl validator.FieldLevel) bool {
	return entity.ValidateName(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"-"`
}

func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors []ValidationError
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "asin":
			message = fmt.Sprintf("%s must be a valid ASIN", field)
		case "region":
			message = fmt.Sprintf("%s must be one of %s", field, strings.Join(entity.Regions(), ", "))
		case "search_name":
			message = fmt.Sprintf("%s must be at least %d characters", field, entity.MinSearchLength)
		case "oneof":
			message = fmt.Sprintf("%s must be one of %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: message,
			Tag:     tag,
		})
	}

	return errors
}
