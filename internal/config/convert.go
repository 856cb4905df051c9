package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jsvensson/barconf/internal/color"
)

// Value is the set of types a resolved string can be converted to.
type Value interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		time.Duration | color.Color | color.Space
}

// Convert parses a resolved value as T.
//
// Integers and floats take the longest numeric prefix ("12px" is 12).
// Booleans are true for true, yes, on and 1 and false otherwise. Durations
// are seconds when given as a bare number, time.ParseDuration syntax
// otherwise. Colors are returned in RGB.
func Convert[T Value](value string) (T, error) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case string:
		out = value
	case bool:
		out = parseBool(value)
	case int:
		out, err = parseInt[int](value, strconv.IntSize)
	case int8:
		out, err = parseInt[int8](value, 8)
	case int16:
		out, err = parseInt[int16](value, 16)
	case int32:
		out, err = parseInt[int32](value, 32)
	case int64:
		out, err = parseInt[int64](value, 64)
	case uint:
		out, err = parseUint[uint](value, strconv.IntSize)
	case uint8:
		out, err = parseUint[uint8](value, 8)
	case uint16:
		out, err = parseUint[uint16](value, 16)
	case uint32:
		out, err = parseUint[uint32](value, 32)
	case uint64:
		out, err = parseUint[uint64](value, 64)
	case float32:
		var f float64
		f, err = parseFloat(value, 32)
		out = float32(f)
	case float64:
		out, err = parseFloat(value, 64)
	case time.Duration:
		out, err = parseDuration(value)
	case color.Color:
		var col color.Color
		col, err = color.Parse(value)
		out = col.Convert(color.RGB)
	case color.Space:
		out, err = color.ParseSpace(value)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}

// intPrefix returns the leading "[+-]digits" of s after trimming spaces.
func intPrefix(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return ""
	}
	return s[:i]
}

func parseInt[T int | int8 | int16 | int32 | int64](s string, bits int) (T, error) {
	prefix := intPrefix(s)
	if prefix == "" {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	v, err := strconv.ParseInt(prefix, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidValue, s)
	}
	return T(v), nil
}

func parseUint[T uint | uint8 | uint16 | uint32 | uint64](s string, bits int) (T, error) {
	prefix := strings.TrimPrefix(intPrefix(s), "+")
	if prefix == "" || prefix[0] == '-' {
		return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidValue, s)
	}
	v, err := strconv.ParseUint(prefix, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidValue, s)
	}
	return T(v), nil
}

// floatPrefix returns the leading decimal floating point literal of s.
func floatPrefix(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func parseFloat(s string, bits int) (float64, error) {
	prefix := floatPrefix(s)
	if prefix == "" {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	v, err := strconv.ParseFloat(prefix, bits)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	return v, nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, s)
	}
	return d, nil
}

// ResolveAs resolves raw as the value of section.key and converts it.
func ResolveAs[T Value](c *Config, section, key, raw string) (T, error) {
	v, err := c.Resolve(section, key, raw)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := Convert[T](v)
	if err != nil {
		return out, withPath(section+"."+key, err)
	}
	return out, nil
}

// Get resolves section.key and converts it to T.
func Get[T Value](c *Config, section, key string) (T, error) {
	raw, ok := c.Lookup(section, key)
	if !ok {
		var zero T
		return zero, c.missing(section, key)
	}
	return ResolveAs[T](c, section, key, raw)
}

// GetOr is like Get but returns def when the key is absent or its reference
// cannot be resolved for a recoverable reason. Conversion errors, cycles
// and invalid inherit targets are returned.
func GetOr[T Value](c *Config, section, key string, def T) (T, error) {
	raw, ok := c.Lookup(section, key)
	if !ok {
		return def, nil
	}
	v, err := c.Resolve(section, key, raw)
	if err != nil {
		if Recoverable(err) {
			c.log.Infof("%s, using default %v", err, def)
			return def, nil
		}
		return def, err
	}
	out, err := Convert[T](v)
	if err != nil {
		return def, withPath(section+"."+key, err)
	}
	return out, nil
}
