package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
)

// FormValidator checks order forms against their struct tags.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator reports field errors under their form names.
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &FormValidator{validate: v}
}

// Validate returns a *ValidationError listing every failing field.
func (f *FormValidator) Validate(form types.OrderForm) error {
	normalized := normalizeForm(form)
	err := f.validate.Struct(normalized)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields, Form: form}
}

func normalizeForm(form types.OrderForm) types.OrderForm {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)
	form.Country = strings.ToUpper(strings.TrimSpace(form.Country))
	form.Postcode = strings.TrimSpace(form.Postcode)
	form.TownOrCity = strings.TrimSpace(form.TownOrCity)
	form.StreetAddress1 = strings.TrimSpace(form.StreetAddress1)
	form.StreetAddress2 = strings.TrimSpace(form.StreetAddress2)
	form.County = strings.TrimSpace(form.County)
	return form
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "iso3166_1_alpha2":
		return "Select a valid country."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed the %s check.", fe.Tag())
	}
}
