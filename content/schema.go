package content

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

var timeType = reflect.TypeFor[time.Time]()

// InferSchema builds the genai schema describing values of type t.
//
// Struct fields are described in declaration order and named by their JSON
// tag. A field is required unless it has a `default` tag or is marked
// omitempty. Types with no schema equivalent become TypeUnspecified; the
// inference never fails.
func InferSchema(t reflect.Type) *genai.Schema {
	return inferSchema(t, map[reflect.Type]bool{})
}

func inferSchema(t reflect.Type, visited map[reflect.Type]bool) *genai.Schema {
	if t == nil {
		return &genai.Schema{Type: genai.TypeUnspecified}
	}

	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	s := inferType(t, visited)
	if nullable {
		s.Nullable = genai.Ptr(true)
	}
	return s
}

func inferType(t reflect.Type, visited map[reflect.Type]bool) *genai.Schema {
	if t == timeType {
		return &genai.Schema{Type: genai.TypeString, Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &genai.Schema{Type: genai.TypeBoolean}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &genai.Schema{Type: genai.TypeInteger}

	case reflect.Float32, reflect.Float64:
		return &genai.Schema{Type: genai.TypeNumber}

	case reflect.String:
		return &genai.Schema{Type: genai.TypeString}

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &genai.Schema{Type: genai.TypeString, Format: "byte"}
		}
		return &genai.Schema{Type: genai.TypeArray, Items: inferSchema(t.Elem(), visited)}

	case reflect.Array:
		return &genai.Schema{Type: genai.TypeArray, Items: inferSchema(t.Elem(), visited)}

	case reflect.Map:
		return &genai.Schema{Type: genai.TypeObject}

	case reflect.Struct:
		if visited[t] {
			return &genai.Schema{Type: genai.TypeUnspecified}
		}
		visited[t] = true
		defer delete(visited, t)

		s := &genai.Schema{Type: genai.TypeObject}
		addFields(s, t, visited)
		return s
	}

	return &genai.Schema{Type: genai.TypeUnspecified}
}

func addFields(s *genai.Schema, t reflect.Type, visited map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		name, omitempty, skip := parseJSONTag(f)
		if skip {
			continue
		}

		if f.Anonymous && f.Tag.Get("json") == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				addFields(s, ft, visited)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		fs := inferSchema(f.Type, visited)
		if desc := f.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		if enum := f.Tag.Get("enum"); enum != "" {
			for _, e := range strings.Split(enum, ",") {
				fs.Enum = append(fs.Enum, strings.TrimSpace(e))
			}
		}

		if s.Properties == nil {
			s.Properties = map[string]*genai.Schema{}
		}
		s.Properties[name] = fs
		s.PropertyOrdering = append(s.PropertyOrdering, name)

		_, hasDefault := f.Tag.Lookup("default")
		if !omitempty && !hasDefault {
			s.Required = append(s.Required, name)
		}
	}
}

func parseJSONTag(f reflect.StructField) (name string, omitempty bool, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return f.Name, false, false
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, p := range parts[1:] {
		if p == "omitempty" || p == "omitzero" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

// ToSchema converts an explicitly requested parameter schema.
//
// Accepted values are *genai.Schema, genai.Schema, a JSON-schema-like
// map[string]any and *jsonschema.Schema. Type names are matched without
// regard to case; an unknown type name is a *SchemaError.
func ToSchema(v any) (*genai.Schema, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case *genai.Schema:
		return v, nil
	case genai.Schema:
		return &v, nil
	case map[string]any:
		return schemaFromMap(v)
	case *jsonschema.Schema:
		if v == nil {
			return nil, nil
		}
		return schemaFromJSONSchema(v)
	}
	return nil, typeError("Schema", v)
}

var schemaTypes = map[string]genai.Type{
	"":                 genai.TypeUnspecified,
	"TYPE_UNSPECIFIED": genai.TypeUnspecified,
	"STRING":           genai.TypeString,
	"NUMBER":           genai.TypeNumber,
	"INTEGER":          genai.TypeInteger,
	"BOOLEAN":          genai.TypeBoolean,
	"ARRAY":            genai.TypeArray,
	"OBJECT":           genai.TypeObject,
	"NULL":             genai.TypeNULL,
}

func parseType(name string) (genai.Type, error) {
	t, ok := schemaTypes[strings.ToUpper(name)]
	if !ok {
		return "", &SchemaError{Type: name}
	}
	return t, nil
}

// pickType resolves a list of type names, as allowed by JSON Schema, to a
// single type plus nullability.
func pickType(names []string) (genai.Type, bool, error) {
	var picked []string
	nullable := false
	for _, n := range names {
		if strings.EqualFold(n, "null") {
			nullable = true
			continue
		}
		picked = append(picked, n)
	}
	switch len(picked) {
	case 0:
		if nullable {
			return genai.TypeNULL, false, nil
		}
		return genai.TypeUnspecified, false, nil
	case 1:
		t, err := parseType(picked[0])
		return t, nullable, err
	}
	return "", false, &SchemaError{Type: strings.Join(names, "|")}
}

func schemaFromMap(m map[string]any) (*genai.Schema, error) {
	s := &genai.Schema{}

	var typeNames []string
	switch t := m["type"].(type) {
	case nil:
	case string:
		typeNames = []string{t}
	case genai.Type:
		typeNames = []string{string(t)}
	default:
		names, err := stringList(t)
		if err != nil {
			return nil, &TypeConversionError{Target: "Schema", Value: m, Reason: "type must be a string or a list of strings"}
		}
		typeNames = names
	}
	typ, nullable, err := pickType(typeNames)
	if err != nil {
		return nil, err
	}
	s.Type = typ
	if nullable {
		s.Nullable = genai.Ptr(true)
	}

	s.Description, _ = m["description"].(string)
	s.Format, _ = m["format"].(string)
	s.Title, _ = m["title"].(string)
	if n, ok := m["nullable"].(bool); ok {
		s.Nullable = genai.Ptr(n)
	}

	if raw, ok := m["enum"]; ok {
		if s.Enum, err = stringList(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := m["required"]; ok {
		if s.Required, err = stringList(raw); err != nil {
			return nil, err
		}
	}
	for _, k := range []string{"propertyOrdering", "property_ordering"} {
		if raw, ok := m[k]; ok {
			if s.PropertyOrdering, err = stringList(raw); err != nil {
				return nil, err
			}
		}
	}

	if raw, ok := m["items"]; ok {
		if s.Items, err = ToSchema(raw); err != nil {
			return nil, err
		}
	}

	if raw, ok := m["properties"]; ok {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, &TypeConversionError{Target: "Schema", Value: m, Reason: "properties must be a mapping"}
		}
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			ps, err := ToSchema(p)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			s.Properties[name] = ps
		}
	}

	return s, nil
}

func schemaFromJSONSchema(js *jsonschema.Schema) (*genai.Schema, error) {
	names := js.Types
	if js.Type != "" {
		names = []string{js.Type}
	}
	typ, nullable, err := pickType(names)
	if err != nil {
		return nil, err
	}

	s := &genai.Schema{
		Type:             typ,
		Description:      js.Description,
		Format:           js.Format,
		Title:            js.Title,
		Required:         js.Required,
		PropertyOrdering: js.PropertyOrder,
		Minimum:          js.Minimum,
		Maximum:          js.Maximum,
	}
	if nullable {
		s.Nullable = genai.Ptr(true)
	}
	for _, e := range js.Enum {
		s.Enum = append(s.Enum, fmt.Sprint(e))
	}

	if js.Items != nil {
		if s.Items, err = schemaFromJSONSchema(js.Items); err != nil {
			return nil, err
		}
	}

	if len(js.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, p := range js.Properties {
			ps, err := schemaFromJSONSchema(p)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			s.Properties[name] = ps
		}
	}

	return s, nil
}

func stringList(v any) ([]string, error) {
	switch v := v.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeConversionError{Target: "[]string", Value: item}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, typeError("[]string", v)
}

// toJSONSchema renders s as a JSON Schema document for argument validation.
func toJSONSchema(s *genai.Schema) map[string]any {
	out := map[string]any{}
	if s.Type != "" && s.Type != genai.TypeUnspecified {
		t := strings.ToLower(string(s.Type))
		if s.Nullable != nil && *s.Nullable && s.Type != genai.TypeNULL {
			out["type"] = []any{t, "null"}
		} else {
			out["type"] = t
		}
	}
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, e := range s.Enum {
			enum[i] = enumValue(s.Type, e)
		}
		out["enum"] = enum
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = toJSONSchema(p)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		required := make([]any, len(s.Required))
		for i, r := range s.Required {
			required[i] = r
		}
		out["required"] = required
	}
	return out
}

// enumValue converts an enum entry to the JSON kind of its schema type.
// Entries that do not parse stay strings.
func enumValue(t genai.Type, e string) any {
	switch t {
	case genai.TypeInteger:
		if n, err := strconv.ParseInt(e, 10, 64); err == nil {
			return n
		}
	case genai.TypeNumber:
		if f, err := strconv.ParseFloat(e, 64); err == nil {
			return f
		}
	case genai.TypeBoolean:
		if b, err := strconv.ParseBool(e); err == nil {
			return b
		}
	}
	return e
}
