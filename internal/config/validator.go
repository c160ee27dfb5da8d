package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

// validate is the validator instance for configuration structs.
// Initialized in init() with custom validators.
var validate *validator.Validate

func init() {
	validate = validator.New()
	// report fields by their config key
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("distinct", validateDistinct)
}

// validateDistinct rejects integer lists with repeated values
func validateDistinct(fl validator.FieldLevel) bool {
	values, ok := fl.Field().Interface().([]int)
	if !ok {
		return true
	}
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Validate checks the struct tags of every section and returns a config
// error listing each offending field
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "configuration validation failed")
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	sort.Strings(problems)

	return errors.Configf("configuration validation failed: %s", strings.Join(problems, "; "))
}

// describe renders a field error as "section.field: reason"
func describe(fe validator.FieldError) string {
	// Namespace is "Config.analysis.top_k"; drop the root
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: is required", field)
	case "distinct":
		return fmt.Sprintf("%s: contains duplicates", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s: must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}
