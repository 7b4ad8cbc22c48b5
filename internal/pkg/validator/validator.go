package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// "HH:MM", 00:00 through 24:00
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := availability.ParseClock(fl.Field().String())
		return err == nil
	})

	// lowercase weekday name; use with dive on slices
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return availability.IsWeekdayName(fl.Field().String())
	})

	validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := availability.ParseDate(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := availability.ParseYearMonth(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == "" || name == "Local" {
			return false
		}
		_, err := time.LoadLocation(name)
		return err == nil
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "clock":
			errors[field] = "Invalid time. Must be HH:MM between 00:00 and 24:00"
		case "weekday":
			errors[field] = "Invalid weekday. Must be a lowercase day name such as monday"
		case "date":
			errors[field] = "Invalid date. Must be YYYY-MM-DD"
		case "month":
			errors[field] = "Invalid month. Must be YYYY-MM"
		case "timezone":
			errors[field] = "Invalid IANA timezone"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
