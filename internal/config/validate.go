package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
)

// repositoryPattern matches an "owner/name" slug.
var repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// CheckConfigFile checks a YAML release config before koanf loads it. The
// document must parse, be a mapping and use only known settings with single
// values. A missing or blank file passes and leaves the defaults in place.
func CheckConfigFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case errors.Is(err, fs.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "release config is not readable: permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlSyntaxError(filePath, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return &ValidationError{
			FilePath: filePath,
			Line:     root.Line,
			Column:   root.Column,
			Message:  "release config must be a mapping of settings, e.g. \"format: github\"",
		}
	}

	known := configKeys()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if !slices.Contains(known, key.Value) {
			return &ValidationError{
				FilePath: filePath,
				Line:     key.Line,
				Column:   key.Column,
				Field:    key.Value,
				Message:  fmt.Sprintf("unknown setting %q (known settings: %s)", key.Value, strings.Join(known, ", ")),
			}
		}
		if value.Kind != yaml.ScalarNode {
			return &ValidationError{
				FilePath: filePath,
				Line:     value.Line,
				Column:   value.Column,
				Field:    key.Value,
				Message:  fmt.Sprintf("%s takes a single value, not a list or mapping", key.Value),
			}
		}
	}
	return nil
}

// configKeys returns the settings a release config may contain, in the order
// Configuration declares them.
func configKeys() []string {
	t := reflect.TypeOf(Configuration{})
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if name := t.Field(i).Tag.Get("koanf"); name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	return keys
}

// yamlErrorPattern matches yaml.v3 syntax errors, which carry a line and
// sometimes a column.
var yamlErrorPattern = regexp.MustCompile(`^yaml: line (\d+): (?:column (\d+): )?(.+)$`)

func yamlSyntaxError(filePath string, err error) *ValidationError {
	m := yamlErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &ValidationError{
			FilePath: filePath,
			Message:  "release config is not valid YAML: " + strings.TrimPrefix(err.Error(), "yaml: "),
		}
	}
	line, _ := strconv.Atoi(m[1])
	column := 1
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  "release config is not valid YAML: " + m[3],
	}
}

// ValidateConfigValues validates configuration values against expected types and constraints.
// Returns nil if valid, or a ValidationError naming the first invalid field.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	validate := newValidator()
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				return &ValidationError{
					FilePath: filePath,
					Field:    fieldErr.Field(),
					Message:  formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	return nil
}

// newValidator returns a validator that reports fields by their config key
// and knows the "format" and "repository" tags.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("koanf")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		_, err := changelog.ParseFormat(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("repository", func(fl validator.FieldLevel) bool {
		return repositoryPattern.MatchString(fl.Field().String())
	})
	return validate
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "url":
		return fmt.Sprintf("must be a URL, got %q", fieldErr.Value())
	case "format":
		return (&changelog.UnsupportedFormatError{Format: fmt.Sprint(fieldErr.Value())}).Error()
	case "repository":
		return fmt.Sprintf("must be owner/name, got %q", fieldErr.Value())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
