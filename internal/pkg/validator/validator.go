package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/blooner/bloodlink/internal/authz"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// BloodGroups is the closed set accepted for bloodGroup fields.
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

// Request bodies are closed shapes: unknown JSON fields fail binding, and
// the custom tags below are available to every `binding:"..."` declaration.
func init() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs json field naming and the custom tags on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return IsValidBloodGroup(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return authz.Role(fl.Field().String()).IsValid()
	})
}

// IsValidEmail checks if the email format is valid
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// NormalizeEmail trims and lowercases an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email normalizes raw and checks the result, so padded or mixed-case
// input maps to the same identity key everywhere.
func Email(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if !IsValidEmail(email) {
		return "", apperrors.Validation("email must be a valid email")
	}
	return email, nil
}

// ObjectID parses a path identifier. label names the resource in the
// error message, e.g. "blog".
func ObjectID(hex, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperrors.Invalid("INVALID_ID", "Invalid "+label+" ID")
	}
	return id, nil
}

// IsValidBloodGroup reports whether s is one of BloodGroups.
func IsValidBloodGroup(s string) bool {
	for _, g := range BloodGroups {
		if s == g {
			return true
		}
	}
	return false
}

// Translate turns a binding error into a single human readable message.
func Translate(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), describe(fe)))
	}
	return strings.Join(msgs, "; ")
}

// IsValidationError reports whether err came from struct validation rather
// than JSON decoding.
func IsValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "bloodgroup":
		return "must be one of: " + strings.Join(BloodGroups, " ")
	case "role":
		return "must be one of: " + roleNames()
	case "datetime":
		return "must match layout " + fe.Param()
	}
	return "is invalid"
}

func roleNames() string {
	names := make([]string, len(authz.Roles))
	for i, r := range authz.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, " ")
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
