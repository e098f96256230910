package content

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"google.golang.org/genai"
)

// Declaration is implemented by *FunctionDeclaration and
// *CallableFunctionDeclaration.
type Declaration interface {
	ToProto() *genai.FunctionDeclaration
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,63}$`)

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name %q must start with a letter or underscore and contain at most 64 letters, digits, '_', '.' or '-'", ErrInvalidFunction, name)
	}
	return nil
}

// FunctionDeclaration describes a function the model may ask to call.
type FunctionDeclaration struct {
	genai.FunctionDeclaration
}

// NewFunctionDeclaration returns a declaration without an implementation.
// The name must be a valid function name.
func NewFunctionDeclaration(name, description string, parameters *genai.Schema) (*FunctionDeclaration, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return &FunctionDeclaration{genai.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}}, nil
}

// ToProto returns the wire form of the declaration.
func (fd *FunctionDeclaration) ToProto() *genai.FunctionDeclaration {
	d := fd.FunctionDeclaration
	return &d
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// CallableFunctionDeclaration is a FunctionDeclaration bound to a Go func.
//
// The func may take an optional leading context.Context followed by at most
// one argument: a struct (or pointer to struct) whose fields are the
// function's parameters, or a map[string]any receiving the raw arguments.
// It may return nothing, a value, an error, or a value and an error.
type CallableFunctionDeclaration struct {
	FunctionDeclaration

	fn        reflect.Value
	withCtx   bool
	argsType  reflect.Type
	hasResult bool
	hasError  bool
	validator *argsValidator
}

// NewCallableFunctionDeclaration binds fn under name. The parameter schema
// is inferred from fn's argument struct.
func NewCallableFunctionDeclaration(name, description string, fn any) (*CallableFunctionDeclaration, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %s: expected a func, got %T", ErrInvalidFunction, name, fn)
	}

	cfd := &CallableFunctionDeclaration{fn: rv}
	if err := cfd.bindSignature(rv.Type()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFunction, name, err)
	}

	cfd.FunctionDeclaration = FunctionDeclaration{genai.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters:  parametersFor(cfd.argsType),
	}}

	validator, err := newArgsValidator(cfd.Parameters)
	if err != nil {
		return nil, err
	}
	cfd.validator = validator

	return cfd, nil
}

// FunctionDeclarationFromFunc binds fn under the name of its Go symbol.
// Anonymous funcs get names like "func1", or "func1_2" when nested; use
// NewCallableFunctionDeclaration to choose a better one.
func FunctionDeclarationFromFunc(fn any) (*CallableFunctionDeclaration, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: expected a func, got %T", ErrInvalidFunction, fn)
	}
	return NewCallableFunctionDeclaration(funcName(rv), "", fn)
}

func funcName(rv reflect.Value) string {
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	segments := strings.Split(name, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	// Closures nested in closures end in numeric segments ("func1.2").
	i := len(segments) - 1
	for i > 0 && isDigits(segments[i]) {
		i--
	}
	return strings.Join(segments[i:], "_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *CallableFunctionDeclaration) bindSignature(ft reflect.Type) error {
	if ft.IsVariadic() {
		return fmt.Errorf("variadic funcs are not supported")
	}

	in := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		c.withCtx = true
		in = 1
	}
	switch ft.NumIn() - in {
	case 0:
	case 1:
		at := ft.In(in)
		if !isArgsType(at) {
			return fmt.Errorf("argument must be a struct, a pointer to a struct or map[string]any, got %s", at)
		}
		c.argsType = at
	default:
		return fmt.Errorf("expected at most one argument after context.Context, got %d", ft.NumIn()-in)
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			c.hasError = true
		} else {
			c.hasResult = true
		}
	case 2:
		if ft.Out(1) != errorType {
			return fmt.Errorf("second result must be error, got %s", ft.Out(1))
		}
		c.hasResult = true
		c.hasError = true
	default:
		return fmt.Errorf("expected at most two results, got %d", ft.NumOut())
	}
	return nil
}

func isArgsType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	case reflect.Map:
		return t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Interface
	}
	return false
}

func parametersFor(t reflect.Type) *genai.Schema {
	if t == nil || t.Kind() == reflect.Map {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s := InferSchema(t)
	if len(s.Properties) == 0 {
		return nil
	}
	return s
}

// Call validates args against the declared parameters and invokes the
// bound func.
func (c *CallableFunctionDeclaration) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := c.validator.validate(args); err != nil {
		return nil, &ValidationError{Function: c.Name, Err: err}
	}

	var in []reflect.Value
	if c.withCtx {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	if c.argsType != nil {
		arg, err := c.decodeArgs(args)
		if err != nil {
			return nil, err
		}
		in = append(in, arg)
	}

	out := c.fn.Call(in)

	var result any
	if c.hasResult {
		result = out[0].Interface()
	}
	if c.hasError {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return result, errVal.Interface().(error)
		}
	}
	return result, nil
}

func (c *CallableFunctionDeclaration) decodeArgs(args map[string]any) (reflect.Value, error) {
	if c.argsType.Kind() == reflect.Map {
		if args == nil {
			args = map[string]any{}
		}
		return reflect.ValueOf(args).Convert(c.argsType), nil
	}

	data, err := json.Marshal(args)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("content: %s: marshal args: %w", c.Name, err)
	}

	target := c.argsType
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	ptr := reflect.New(target)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("content: %s: unmarshal args into %s: %w", c.Name, target, err)
	}

	if c.argsType.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

// ToFunctionDeclaration converts v into a declaration.
//
// nil yields (nil, nil). A *FunctionDeclaration or
// *CallableFunctionDeclaration is returned unchanged, a
// genai.FunctionDeclaration is wrapped, a mapping with a "name" key
// (optionally "description" and "parameters") is built into a
// *FunctionDeclaration, and a Go func becomes a *CallableFunctionDeclaration
// with an inferred schema.
func ToFunctionDeclaration(v any) (Declaration, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *CallableFunctionDeclaration:
		if v == nil {
			return nil, typeError("FunctionDeclaration", v)
		}
		return v, nil
	case *FunctionDeclaration:
		if v == nil {
			return nil, typeError("FunctionDeclaration", v)
		}
		return v, nil
	case FunctionDeclaration:
		return &v, nil
	case *genai.FunctionDeclaration:
		if v == nil {
			return nil, typeError("FunctionDeclaration", v)
		}
		return &FunctionDeclaration{*v}, nil
	case genai.FunctionDeclaration:
		return &FunctionDeclaration{v}, nil
	case map[string]any:
		return declarationFromMap(v)
	}

	if reflect.ValueOf(v).Kind() == reflect.Func {
		return FunctionDeclarationFromFunc(v)
	}
	return nil, typeError("FunctionDeclaration", v)
}

func declarationFromMap(m map[string]any) (*FunctionDeclaration, error) {
	raw, ok := m["name"]
	if !ok {
		return nil, keyError("FunctionDeclaration", m)
	}
	name, ok := raw.(string)
	if !ok {
		return nil, &TypeConversionError{Target: "FunctionDeclaration", Value: m, Reason: "name must be a string"}
	}

	var description string
	if raw, ok := m["description"]; ok {
		if description, ok = raw.(string); !ok {
			return nil, &TypeConversionError{Target: "FunctionDeclaration", Value: m, Reason: "description must be a string"}
		}
	}

	for k := range m {
		switch k {
		case "name", "description", "parameters":
		default:
			return nil, keyError("FunctionDeclaration", m)
		}
	}

	params, err := ToSchema(m["parameters"])
	if err != nil {
		return nil, fmt.Errorf("content: parameters of %q: %w", name, err)
	}

	return NewFunctionDeclaration(name, description, params)
}
