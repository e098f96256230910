package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidFunction is returned when a Go func cannot be exposed as a
// function declaration, either because of its signature or its name.
var ErrInvalidFunction = errors.New("content: invalid function")

// TypeConversionError reports a value whose shape matches none of the
// variants accepted for Target.
type TypeConversionError struct {
	Target string
	Value  any
	Reason string
}

func (e *TypeConversionError) Error() string {
	msg := fmt.Sprintf("content: cannot convert %T to %s", e.Value, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// KeyConversionError reports a mapping that lacks the key needed to decide
// what it represents. Keys lists the keys that were present.
type KeyConversionError struct {
	Target string
	Keys   []string
}

func (e *KeyConversionError) Error() string {
	return fmt.Sprintf("content: cannot convert mapping with keys [%s] to %s", strings.Join(e.Keys, ", "), e.Target)
}

// SchemaError reports a requested schema type that has no genai equivalent.
type SchemaError struct {
	Type string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("content: unknown schema type %q", e.Type)
}

// LookupError is returned when a function call names a function the library
// cannot invoke.
type LookupError struct {
	Name string
	// Declared is true when the name exists but has no Go function bound.
	Declared bool
}

func (e *LookupError) Error() string {
	if e.Declared {
		return fmt.Sprintf("content: function %q is declared but not callable", e.Name)
	}
	return fmt.Sprintf("content: function %q not found", e.Name)
}

// DuplicateFunctionError is returned when two declarations in one library
// share a name.
type DuplicateFunctionError struct {
	Name string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("content: duplicate function declaration %q", e.Name)
}

func typeError(target string, v any) error {
	return &TypeConversionError{Target: target, Value: v}
}

func keyError(target string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &KeyConversionError{Target: target, Keys: keys}
}
