package discord

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// OptString returns a pointer to r's string value, or nil when the field is
// absent or null.
func OptString(r gjson.Result) *string {
	if !present(r) {
		return nil
	}
	s := r.String()
	return &s
}

// OptInt returns a pointer to r's integer value, or nil when the field is
// absent or null.
func OptInt(r gjson.Result) *int {
	if !present(r) {
		return nil
	}
	n := int(r.Int())
	return &n
}

// OptBool returns a pointer to r's boolean value, or nil when the field is
// absent or null.
func OptBool(r gjson.Result) *bool {
	if !present(r) {
		return nil
	}
	b := r.Bool()
	return &b
}

// Strings returns the string elements of a JSON array. An absent or null
// field yields an empty, non-nil slice.
func Strings(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// Objects decodes a JSON array of objects without reshaping it. Numbers are
// kept as json.Number so large values survive unchanged. A 204 result decodes
// to an empty list.
func Objects(r gjson.Result) ([]map[string]any, error) {
	if IsNoContent(r) {
		return []map[string]any{}, nil
	}
	if !r.IsArray() {
		return nil, fmt.Errorf("discord: expected JSON array, got %s: %w", r.Type, ErrMalformedResponse)
	}
	dec := json.NewDecoder(strings.NewReader(r.Raw))
	dec.UseNumber()
	out := []map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("discord: decode array: %w", err)
	}
	return out, nil
}

// IsNoContent reports whether r is the result Request returns for a 204.
func IsNoContent(r gjson.Result) bool {
	return r.Raw == noContentResult.Raw
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}
