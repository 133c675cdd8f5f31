package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/result-academic/records-service/internal/models"
)

// DateFormat is the wire format for result dates.
const DateFormat = "2006-01-02"

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with the custom rules of this
// service.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerRules()
	return v
}

// Validate runs struct validation and converts failures.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts validator.ValidationErrors to our error type.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "password_complexity":
		return "must be at least 8 characters and contain a letter, a digit and a special character"
	case "ci_digits":
		return "must be exactly 11 digits"
	case "teaching_category":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.ValidTeachingCategories(), ", "))
	case "scientific_category":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.ValidScientificCategories(), ", "))
	case "professional_level":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.ValidProfessionalLevels(), ", "))
	case "publication_type":
		return "must be one of: journal, book, book_chapter"
	case "result_date":
		return "must be a date in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

var (
	passwordLetter  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[^A-Za-z\d]`)
	ciPattern       = regexp.MustCompile(`^\d{11}$`)
)

// PasswordMeetsComplexity reports whether the password has at least 8
// characters including a letter, a digit and a special character.
func PasswordMeetsComplexity(password string) bool {
	return len(password) >= 8 &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSpecial.MatchString(password)
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("password_complexity", func(fl validator.FieldLevel) bool {
		return PasswordMeetsComplexity(fl.Field().String())
	})

	v.validate.RegisterValidation("ci_digits", func(fl validator.FieldLevel) bool {
		return ciPattern.MatchString(fl.Field().String())
	})

	v.validate.RegisterValidation("teaching_category", func(fl validator.FieldLevel) bool {
		return containsString(models.ValidTeachingCategories(), fl.Field().String())
	})

	v.validate.RegisterValidation("scientific_category", func(fl validator.FieldLevel) bool {
		return containsString(models.ValidScientificCategories(), fl.Field().String())
	})

	v.validate.RegisterValidation("professional_level", func(fl validator.FieldLevel) bool {
		return containsString(models.ValidProfessionalLevels(), fl.Field().String())
	})

	v.validate.RegisterValidation("publication_type", func(fl validator.FieldLevel) bool {
		t := models.PublicationType(fl.Field().String())
		for _, valid := range models.ValidPublicationTypes() {
			if t == valid {
				return true
			}
		}
		return false
	})

	v.validate.RegisterValidation("result_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateFormat, fl.Field().String())
		return err == nil
	})
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// FlexibleID accepts both numeric and string-encoded IDs in JSON payloads,
// coercing to an integer ID.
type FlexibleID uint

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("invalid id: empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", s, err)
	}
	*f = FlexibleID(n)
	return nil
}

// UintSlice converts FlexibleID values to plain uints.
func UintSlice(ids []FlexibleID) []uint {
	out := make([]uint, len(ids))
	for i, id := range ids {
		out[i] = uint(id)
	}
	return out
}
