// Package validators provides reusable predicates for registration
// responses. Validator results are advisory values, never errors: they gate
// save-button enablement in the hosting UI, not persistence itself.
package validators

import (
	"strings"

	"regdraft/internal/registration"
)

// Field is a synchronous per-field validator run against staged values.
type Field func(registration.Value) bool

// NonEmpty passes when the value is a non-blank string or a non-empty
// string slice. Nil values fail.
func NonEmpty(value registration.Value) bool {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []registration.File:
		return len(v) > 0
	default:
		return value != nil
	}
}

// OneOf returns a validator that passes when the value is one of the
// allowed options. Empty values pass; emptiness is NonEmpty's concern.
func OneOf(allowed []string) Field {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(value registration.Value) bool {
		switch v := value.(type) {
		case nil:
			return true
		case string:
			return v == "" || set[v]
		case []string:
			for _, item := range v {
				if !set[item] {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}
