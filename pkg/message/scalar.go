package message

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// The push service transports some booleans and every 64-bit integer as JSON
// strings. All of those fields go through the helpers below.

func formatUint[T ~uint64](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

func parseUint[T ~uint64](s string) (T, error) {
	// ParseUint rejects signs and underscores in base 10.
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &InvalidIDError{Text: s}
	}
	return T(v), nil
}

// FormatBool returns the string-coded form of b.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ParseBool accepts exactly "true" or "false".
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func stringField(obj gjson.Result, name string) (string, error) {
	v := obj.Get(name)
	if v.Type != gjson.String {
		return "", &FieldError{Field: name}
	}
	return v.Str, nil
}

func stringBoolField(obj gjson.Result, name string) (bool, error) {
	s, err := stringField(obj, name)
	if err != nil {
		return false, err
	}
	b, err := ParseBool(s)
	if err != nil {
		return false, &FieldError{Field: name, Value: s, Err: err}
	}
	return b, nil
}

func stringUintField[T ~uint64](obj gjson.Result, name string) (T, error) {
	s, err := stringField(obj, name)
	if err != nil {
		return 0, err
	}
	v, err := parseUint[T](s)
	if err != nil {
		return 0, &FieldError{Field: name, Value: s, Err: err}
	}
	return v, nil
}

// numberField reads a native JSON integer without going through float64.
func numberField(obj gjson.Result, name string) (uint64, error) {
	v := obj.Get(name)
	if v.Type != gjson.Number {
		return 0, &FieldError{Field: name}
	}
	n, err := strconv.ParseUint(v.Raw, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: name, Value: v.Raw, Err: err}
	}
	return n, nil
}

func boolField(obj gjson.Result, name string) (bool, error) {
	v := obj.Get(name)
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	}
	return false, &FieldError{Field: name}
}

func stringsField(obj gjson.Result, name string) ([]string, error) {
	v := obj.Get(name)
	if !v.IsArray() {
		return nil, &FieldError{Field: name}
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, &FieldError{Field: fmt.Sprintf("%s[%d]", name, i), Value: item.Raw}
		}
		out = append(out, item.Str)
	}
	return out, nil
}
