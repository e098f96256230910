package content

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Tool is a group of function declarations offered to the model together.
type Tool struct {
	declarations []Declaration
	// base carries the non-function fields of a genai.Tool, such as
	// GoogleSearch, through to ToProto.
	base genai.Tool
}

// NewTool resolves each value with ToFunctionDeclaration.
func NewTool(declarations ...any) (*Tool, error) {
	t := &Tool{}
	seen := map[string]bool{}
	for _, v := range declarations {
		d, err := ToFunctionDeclaration(v)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, &TypeConversionError{Target: "Tool", Value: v, Reason: "nil declaration"}
		}
		name := d.ToProto().Name
		if seen[name] {
			return nil, &DuplicateFunctionError{Name: name}
		}
		seen[name] = true
		t.declarations = append(t.declarations, d)
	}
	return t, nil
}

// Declarations returns the tool's declarations in order.
func (t *Tool) Declarations() []Declaration {
	return t.declarations
}

func (t *Tool) ToProto() *genai.Tool {
	out := t.base
	out.FunctionDeclarations = make([]*genai.FunctionDeclaration, 0, len(t.declarations))
	for _, d := range t.declarations {
		out.FunctionDeclarations = append(out.FunctionDeclarations, d.ToProto())
	}
	return &out
}

// ToTool converts v into a single Tool.
//
// Accepted values are *Tool, *genai.Tool, genai.Tool, a mapping with a
// "function_declarations" key, a slice or iterator of declaration-like
// values, or a single declaration-like value.
func ToTool(v any) (*Tool, error) {
	switch v := v.(type) {
	case nil:
		return nil, typeError("Tool", v)
	case *Tool:
		if v == nil {
			return nil, typeError("Tool", v)
		}
		return v, nil
	case *genai.Tool:
		if v == nil {
			return nil, typeError("Tool", v)
		}
		return toolFromProto(*v)
	case genai.Tool:
		return toolFromProto(v)
	case map[string]any:
		if key := declarationsKey(v); key != "" {
			for k := range v {
				if k != key {
					return nil, keyError("Tool", v)
				}
			}
			return toolFromSequence(v[key])
		}
	}

	if items, ok := sequence(v); ok {
		return NewTool(items...)
	}
	return NewTool(v)
}

func toolFromProto(pt genai.Tool) (*Tool, error) {
	decls := make([]any, len(pt.FunctionDeclarations))
	for i, d := range pt.FunctionDeclarations {
		decls[i] = d
	}
	t, err := NewTool(decls...)
	if err != nil {
		return nil, err
	}
	pt.FunctionDeclarations = nil
	t.base = pt
	return t, nil
}

func toolFromSequence(v any) (*Tool, error) {
	items, ok := sequence(v)
	if !ok {
		return nil, &TypeConversionError{Target: "Tool", Value: v, Reason: "function_declarations must be a list"}
	}
	return NewTool(items...)
}

func declarationsKey(m map[string]any) string {
	for _, k := range []string{"function_declarations", "functionDeclarations"} {
		if _, ok := m[k]; ok {
			return k
		}
	}
	return ""
}

// isToolShaped reports whether v describes a whole tool rather than a
// single function declaration.
func isToolShaped(v any) bool {
	switch v := v.(type) {
	case *Tool, *genai.Tool, genai.Tool, *FunctionLibrary:
		return true
	case map[string]any:
		return declarationsKey(v) != ""
	}
	_, ok := sequence(v)
	return ok
}

// FunctionLibrary indexes the declarations of a request's tools by name and
// dispatches function calls to the bound Go funcs. It is immutable once
// built and safe for concurrent use.
type FunctionLibrary struct {
	tools []*Tool
	index map[string]Declaration
}

// NewFunctionLibrary indexes tools. Function names must be unique across
// all tools.
func NewFunctionLibrary(tools ...*Tool) (*FunctionLibrary, error) {
	l := &FunctionLibrary{index: map[string]Declaration{}}
	for _, t := range tools {
		for _, d := range t.declarations {
			name := d.ToProto().Name
			if _, ok := l.index[name]; ok {
				return nil, &DuplicateFunctionError{Name: name}
			}
			l.index[name] = d
		}
		l.tools = append(l.tools, t)
	}
	return l, nil
}

// ToFunctionLibrary converts a tools value into a FunctionLibrary.
//
// nil and empty slices yield (nil, nil). A slice whose elements all describe whole tools
// (Tools, genai.Tools, FunctionLibraries, mappings with
// "function_declarations", or nested slices) becomes one Tool per element;
// any other slice is one flat list of declarations grouped into a single
// Tool. Any other value is converted with ToTool.
func ToFunctionLibrary(v any) (*FunctionLibrary, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *FunctionLibrary:
		return v, nil
	}

	items, ok := sequence(v)
	if ok && len(items) == 0 {
		return nil, nil
	}
	if !ok {
		t, err := ToTool(v)
		if err != nil {
			return nil, err
		}
		return NewFunctionLibrary(t)
	}

	allTools := len(items) > 0
	for _, item := range items {
		if !isToolShaped(item) {
			allTools = false
			break
		}
	}
	if !allTools {
		t, err := NewTool(items...)
		if err != nil {
			return nil, err
		}
		return NewFunctionLibrary(t)
	}

	var tools []*Tool
	for _, item := range items {
		if lib, ok := item.(*FunctionLibrary); ok {
			tools = append(tools, lib.tools...)
			continue
		}
		t, err := ToTool(item)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return NewFunctionLibrary(tools...)
}

// Tools returns the library's tools in order.
func (l *FunctionLibrary) Tools() []*Tool {
	return l.tools
}

// ToProto returns the wire form of every tool.
func (l *FunctionLibrary) ToProto() []*genai.Tool {
	out := make([]*genai.Tool, 0, len(l.tools))
	for _, t := range l.tools {
		out = append(out, t.ToProto())
	}
	return out
}

// Lookup returns the declaration registered under name.
func (l *FunctionLibrary) Lookup(name string) (Declaration, bool) {
	d, ok := l.index[name]
	return d, ok
}

// Invoke runs the Go func registered for fc and returns its result.
func (l *FunctionLibrary) Invoke(ctx context.Context, fc *genai.FunctionCall) (any, error) {
	if fc == nil {
		return nil, typeError("FunctionCall", fc)
	}

	d, ok := l.index[fc.Name]
	if !ok {
		return nil, &LookupError{Name: fc.Name}
	}
	callable, ok := d.(*CallableFunctionDeclaration)
	if !ok {
		return nil, &LookupError{Name: fc.Name, Declared: true}
	}

	result, err := callable.Call(ctx, fc.Args)
	if err != nil {
		return nil, fmt.Errorf("content: call %s: %w", fc.Name, err)
	}
	return result, nil
}

// Call runs the Go func registered for fc and wraps its result as a
// function response part. Results other than map[string]any are reported
// under the "result" key.
func (l *FunctionLibrary) Call(ctx context.Context, fc *genai.FunctionCall) (*genai.Part, error) {
	result, err := l.Invoke(ctx, fc)
	if err != nil {
		return nil, err
	}

	response, ok := result.(map[string]any)
	if !ok {
		response = map[string]any{"result": result}
	}
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			ID:       fc.ID,
			Name:     fc.Name,
			Response: response,
		},
	}, nil
}
