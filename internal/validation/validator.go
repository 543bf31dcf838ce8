package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	apperrors "vitrine/internal/errors"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	cpfPattern        = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
	ufPattern         = regexp.MustCompile(`^[A-Z]{2}$`)
)

// New returns a validator that reports json field names and knows the
// Brazilian formats used by checkout and shipping requests.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("postalcode", func(fl validatorv10.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cpf", func(fl validatorv10.FieldLevel) bool {
		return cpfPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("uf", func(fl validatorv10.FieldLevel) bool {
		return ufPattern.MatchString(fl.Field().String())
	})

	return v
}

// NormalizePostalCode strips everything but digits.
func NormalizePostalCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Struct validates s and converts failures into an apperrors.ValidationError.
func Struct(v *validatorv10.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "body",
			Message: err.Error(),
		})
	}

	return apperrors.NewValidationError("validation failed", Details(ve)...)
}

func Details(ve validatorv10.ValidationErrors) []apperrors.ValidationDetail {
	details := make([]apperrors.ValidationDetail, 0, len(ve))
	for _, fe := range ve {
		details = append(details, apperrors.ValidationDetail{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return details
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "required_if":
		return "required for the selected option"
	case "min", "gte":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must have at least %s elements", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must have at most %s elements", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	case "postalcode":
		return "must have 8 digits"
	case "cpf":
		return "must have 11 digits"
	case "uf":
		return "must be a two-letter state code"
	case "unique":
		return "must not contain duplicated entries"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
