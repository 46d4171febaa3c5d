package config

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// field describes one leaf setting. The table of fields is derived from the struct
// tags of Config, so adding a setting only requires declaring it there.
type field struct {
	key   string // dotted path built from yaml tags
	env   string // environment variable name
	rule  string // validator tag
	index []int
	typ   reflect.Type
}

var (
	fieldsOnce  sync.Once
	fieldTable  []field
	fieldLookup map[string]*field
)

// fields returns the field table in declaration order.
func fields() []field {
	fieldsOnce.Do(func() {
		fieldTable = collectFields(reflect.TypeOf(Config{}), "", nil)
		fieldLookup = make(map[string]*field, len(fieldTable)*2)
		for i := range fieldTable {
			f := &fieldTable[i]
			fieldLookup[normalizeKey(f.key)] = f
			if f.env != "" {
				fieldLookup[normalizeKey(f.env)] = f
			}
		}
	})
	return fieldTable
}

// lookupField resolves a dotted key or an environment variable name, ignoring case.
func lookupField(name string) (*field, bool) {
	fields()
	f, ok := fieldLookup[normalizeKey(name)]
	return f, ok
}

// Keys returns the dotted key of every setting.
func Keys() []string {
	table := fields()
	keys := make([]string, 0, len(table))
	for _, f := range table {
		keys = append(keys, f.key)
	}
	return keys
}

func collectFields(t reflect.Type, prefix string, index []int) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := strings.Split(sf.Tag.Get("yaml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i

		if sf.Type.Kind() == reflect.Struct {
			out = append(out, collectFields(sf.Type, key, idx)...)
			continue
		}

		out = append(out, field{
			key:   key,
			env:   sf.Tag.Get("env"),
			rule:  sf.Tag.Get("validate"),
			index: idx,
			typ:   sf.Type,
		})
	}
	return out
}

// set parses raw into the field of cfg. Parse failures are reported as
// ValidationError with the field's type as the domain.
func (f *field) set(cfg reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)
	target := cfg.FieldByIndex(f.index)

	invalid := &ValidationError{Field: f.key, Value: strconv.Quote(raw), Domain: f.typeName()}

	switch {
	case f.typ == durationType:
		d, err := parseDuration(raw)
		if err != nil {
			return invalid
		}
		target.SetInt(int64(d))
	case f.typ.Kind() == reflect.String:
		target.SetString(raw)
	case f.typ.Kind() == reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return invalid
		}
		target.SetBool(b)
	case f.typ.Kind() == reflect.Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || target.OverflowInt(n) {
			return invalid
		}
		target.SetInt(n)
	case f.typ.Kind() == reflect.Float64:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return invalid
		}
		target.SetFloat(x)
	default:
		return fmt.Errorf("field %s: unsupported kind %s", f.key, f.typ.Kind())
	}
	return nil
}

func (f *field) typeName() string {
	switch {
	case f.typ == durationType:
		return "duration"
	case f.typ.Kind() == reflect.Bool:
		return "boolean"
	case f.typ.Kind() == reflect.Int:
		return "integer"
	case f.typ.Kind() == reflect.Float64:
		return "number"
	default:
		return "string"
	}
}

// parseDuration accepts Go duration strings and bare integers as seconds.
func parseDuration(raw string) (time.Duration, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > maxDurationSeconds || n < -maxDurationSeconds {
			return 0, fmt.Errorf("duration %d seconds out of range", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
