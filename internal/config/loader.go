package config

// loader.go fills a Config from named variables. Leaf fields carry their
// variable in an `env` tag, with an optional `envAlt` fallback name, a
// `default` and `required:"true"`. Nested structs are walked in order.

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Lookup returns a variable's value and whether it is set.
type Lookup func(key string) (string, bool)

// Load reads configuration from the process environment and validates it.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup and validates it. Every
// missing or malformed variable is reported, not only the first.
func LoadFrom(lookup Lookup) (*Config, error) {
	cfg := &Config{}

	if err := decode(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// MapLookup serves variables from m, for tests and embedding callers.
func MapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func decode(v reflect.Value, lookup Lookup) error {
	var errs []error
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		switch {
		case !sf.IsExported():
		case sf.Type.Kind() == reflect.Struct:
			if err := decode(fv, lookup); err != nil {
				errs = append(errs, err)
			}
		default:
			if err := decodeField(sf, fv, lookup); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func decodeField(sf reflect.StructField, fv reflect.Value, lookup Lookup) error {
	key := sf.Tag.Get("env")
	if key == "" {
		return nil
	}

	raw, ok := firstSet(lookup, key, sf.Tag.Get("envAlt"))
	if !ok {
		if sf.Tag.Get("required") == "true" {
			return fmt.Errorf("%s is required", key)
		}
		raw = sf.Tag.Get("default")
	}
	if raw == "" {
		return nil
	}

	if err := assign(fv, raw); err != nil {
		return fmt.Errorf("%s=%q: %w", key, raw, err)
	}
	return nil
}

// firstSet returns the first non-blank value among keys. A variable set
// to an empty string counts as unset.
func firstSet(lookup Lookup, keys ...string) (string, bool) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if v, ok := lookup(key); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

var durationType = reflect.TypeFor[time.Duration]()

func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", fv.Type().Elem())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported type %s", fv.Type())
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
