package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"google.golang.org/genai"
)

// ValidationError wraps a failed argument validation.
type ValidationError struct {
	Function string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: invalid arguments for %q: %v", e.Function, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// argsValidator checks function call arguments against a declaration's
// parameter schema.
type argsValidator struct {
	compiled *jsonschema.Schema
}

func newArgsValidator(params *genai.Schema) (*argsValidator, error) {
	if params == nil {
		return nil, nil
	}

	doc, err := jsonDocument(toJSONSchema(params))
	if err != nil {
		return nil, fmt.Errorf("content: marshal parameter schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("parameters.json", doc); err != nil {
		return nil, fmt.Errorf("content: add parameter schema: %w", err)
	}
	compiled, err := c.Compile("parameters.json")
	if err != nil {
		return nil, fmt.Errorf("content: compile parameter schema: %w", err)
	}
	return &argsValidator{compiled: compiled}, nil
}

func (v *argsValidator) validate(args map[string]any) error {
	if v == nil {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	doc, err := jsonDocument(args)
	if err != nil {
		return err
	}
	return v.compiled.Validate(doc)
}

// jsonDocument round-trips v through JSON so numbers and containers have
// the shapes the validator expects.
func jsonDocument(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
