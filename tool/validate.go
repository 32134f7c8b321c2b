package tool

import (
	"fmt"
	"reflect"
)

// ValidationError describes an argument that does not match a tool's schema.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateArgs checks args against the "required" and "properties" entries of
// a minimal JSON schema. Unknown arguments are allowed.
func ValidateArgs(args map[string]any, schema map[string]any) error {
	for _, name := range requiredFields(schema["required"]) {
		if _, ok := args[name]; !ok {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}

	props, _ := schema["properties"].(map[string]any)
	for name, value := range args {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		want, _ := prop["type"].(string)
		if !matchesType(value, want) {
			return &ValidationError{
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", want, value),
			}
		}
		if allowed, ok := enumValues(prop["enum"]); ok && !inEnum(value, allowed) {
			return &ValidationError{
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("value %v is not one of %v", value, allowed),
			}
		}
	}

	return nil
}

// requiredFields accepts both []string (Go-built schemas) and []any (decoded JSON).
func requiredFields(v any) []string {
	switch r := v.(type) {
	case []string:
		return r
	case []any:
		out := make([]string, 0, len(r))
		for _, f := range r {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// enumValues accepts both []string and []any enum declarations.
func enumValues(v any) ([]any, bool) {
	switch e := v.(type) {
	case []any:
		return e, true
	case []string:
		out := make([]any, len(e))
		for i, s := range e {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func inEnum(value any, allowed []any) bool {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return true
		}
	}
	return false
}

func matchesType(value any, want string) bool {
	if value == nil {
		return true
	}

	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}
