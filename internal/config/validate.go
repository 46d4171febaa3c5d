package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report fields by their yaml name so namespaces line up with field keys.
		validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name := strings.Split(sf.Tag.Get("yaml"), ",")[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateConfig runs every declared constraint and returns one ValidationError per
// violating field, combined with multierr.
func validateConfig(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate configuration: %w", err)
	}

	var combined error
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		domain := fe.Tag()
		if f, ok := lookupField(key); ok {
			domain = describeDomain(f)
		}
		combined = multierr.Append(combined, &ValidationError{
			Field:  key,
			Value:  formatValue(fe.Value()),
			Domain: domain,
		})
	}
	return combined
}

// describeDomain renders the validator rule of f in human terms, e.g. [0.0, 2.0].
func describeDomain(f *field) string {
	var (
		parts              []string
		lowOp, low, highOp string
		high               string
	)
	for _, rule := range strings.Split(f.rule, ",") {
		name, param, _ := strings.Cut(rule, "=")
		switch name {
		case "gt", "gte":
			lowOp, low = name, formatBound(f, param)
		case "lt", "lte":
			highOp, high = name, formatBound(f, param)
		case "oneof":
			parts = append(parts, "one of {"+strings.Join(strings.Fields(param), ", ")+"}")
		case "required":
			parts = append(parts, "non-empty")
		case "url":
			parts = append(parts, "a valid URL")
		case "":
		default:
			parts = append(parts, rule)
		}
	}

	switch {
	case lowOp != "" && highOp != "":
		open, closing := "[", "]"
		if lowOp == "gt" {
			open = "("
		}
		if highOp == "lt" {
			closing = ")"
		}
		parts = append(parts, open+low+", "+high+closing)
	case lowOp == "gt":
		parts = append(parts, "> "+low)
	case lowOp == "gte":
		parts = append(parts, ">= "+low)
	case highOp == "lt":
		parts = append(parts, "< "+high)
	case highOp == "lte":
		parts = append(parts, "<= "+high)
	}

	if len(parts) == 0 {
		return f.typeName()
	}
	return strings.Join(parts, " and ")
}

func formatBound(f *field, param string) string {
	switch {
	case f.typ == durationType:
		if d, err := parseDuration(param); err == nil {
			return d.String()
		}
	case f.typ.Kind() == reflect.Float64:
		if x, err := strconv.ParseFloat(param, 64); err == nil {
			s := strconv.FormatFloat(x, 'f', -1, 64)
			if !strings.ContainsAny(s, ".e") {
				s += ".0"
			}
			return s
		}
	}
	return param
}

func formatValue(v any) string {
	switch x := v.(type) {
	case time.Duration:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case Secret:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return strconv.Quote(rv.String())
	}
	return fmt.Sprint(v)
}
