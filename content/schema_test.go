package content

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type autoArgs struct {
	A int            `json:"a"`
	B float64        `json:"b"`
	C string         `json:"c"`
	D []string       `json:"d"`
	E map[string]any `json:"e"`
	F any            `json:"f"`
	G [][]int        `json:"g"`
}

func TestInferSchema_AllRequired(t *testing.T) {
	s := InferSchema(reflect.TypeFor[autoArgs]())

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, s.Required)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, s.PropertyOrdering)

	assert.Equal(t, genai.TypeInteger, s.Properties["a"].Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["b"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["c"].Type)
	assert.Equal(t, genai.TypeArray, s.Properties["d"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["d"].Items.Type)
	assert.Equal(t, genai.TypeObject, s.Properties["e"].Type)
	assert.Nil(t, s.Properties["e"].Properties)
	assert.Equal(t, genai.TypeUnspecified, s.Properties["f"].Type)
	assert.Equal(t, genai.TypeArray, s.Properties["g"].Type)
	assert.Equal(t, genai.TypeArray, s.Properties["g"].Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["g"].Items.Items.Type)
}

type Audit struct {
	CreatedBy string `json:"created_by"`
}

type node struct {
	Value    int     `json:"value"`
	Children []*node `json:"children,omitempty"`
}

type richArgs struct {
	Audit
	City     string    `json:"city" description:"City to look up"`
	Unit     string    `json:"unit" default:"celsius" enum:"celsius,fahrenheit"`
	Days     *int      `json:"days,omitempty"`
	At       time.Time `json:"at"`
	Raw      []byte    `json:"raw,omitempty"`
	Tree     node      `json:"tree,omitempty"`
	Ignored  string    `json:"-"`
	internal string
	Untagged bool
}

func TestInferSchema_Tags(t *testing.T) {
	s := InferSchema(reflect.TypeFor[richArgs]())

	assert.Equal(t, []string{"created_by", "city", "unit", "days", "at", "raw", "tree", "Untagged"}, s.PropertyOrdering)
	assert.Equal(t, []string{"created_by", "city", "at", "Untagged"}, s.Required)

	assert.Equal(t, "City to look up", s.Properties["city"].Description)
	assert.Equal(t, []string{"celsius", "fahrenheit"}, s.Properties["unit"].Enum)

	days := s.Properties["days"]
	assert.Equal(t, genai.TypeInteger, days.Type)
	require.NotNil(t, days.Nullable)
	assert.True(t, *days.Nullable)

	assert.Equal(t, genai.TypeString, s.Properties["at"].Type)
	assert.Equal(t, "date-time", s.Properties["at"].Format)
	assert.Equal(t, "byte", s.Properties["raw"].Format)
	assert.Equal(t, genai.TypeBoolean, s.Properties["Untagged"].Type)

	tree := s.Properties["tree"]
	assert.Equal(t, genai.TypeObject, tree.Type)
	assert.Equal(t, genai.TypeUnspecified, tree.Properties["children"].Items.Type)

	assert.NotContains(t, s.Properties, "Ignored")
	assert.NotContains(t, s.Properties, "internal")
}

func TestInferSchema_Unsupported(t *testing.T) {
	assert.Equal(t, genai.TypeUnspecified, InferSchema(reflect.TypeFor[chan int]()).Type)
	assert.Equal(t, genai.TypeUnspecified, InferSchema(reflect.TypeFor[func()]()).Type)
	assert.Equal(t, genai.TypeUnspecified, InferSchema(nil).Type)
}

func TestToSchema_Map(t *testing.T) {
	s, err := ToSchema(map[string]any{
		"type":        "object",
		"description": "search request",
		"properties": map[string]any{
			"query": map[string]any{"type": "STRING"},
			"limit": map[string]any{"type": []any{"integer", "null"}},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []any{"a", "b"}}},
		},
		"required": []any{"query"},
	})
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "search request", s.Description)
	assert.Equal(t, []string{"query"}, s.Required)
	assert.Equal(t, genai.TypeString, s.Properties["query"].Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["limit"].Type)
	require.NotNil(t, s.Properties["limit"].Nullable)
	assert.True(t, *s.Properties["limit"].Nullable)
	assert.Equal(t, []string{"a", "b"}, s.Properties["tags"].Items.Enum)
}

func TestToSchema_JSONSchema(t *testing.T) {
	floor := 1.0
	s, err := ToSchema(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"count": {Type: "integer", Minimum: &floor},
			"name":  {Types: []string{"null", "string"}},
		},
		Required:      []string{"count"},
		PropertyOrder: []string{"count", "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"count"}, s.Required)
	assert.Equal(t, []string{"count", "name"}, s.PropertyOrdering)
	assert.Equal(t, genai.TypeInteger, s.Properties["count"].Type)
	assert.Equal(t, &floor, s.Properties["count"].Minimum)
	assert.Equal(t, genai.TypeString, s.Properties["name"].Type)
	assert.True(t, *s.Properties["name"].Nullable)
}

func TestToSchema_Passthrough(t *testing.T) {
	in := &genai.Schema{Type: genai.TypeString}
	out, err := ToSchema(in)
	require.NoError(t, err)
	assert.Same(t, in, out)

	out, err = ToSchema(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestToSchema_Errors(t *testing.T) {
	_, err := ToSchema(map[string]any{"type": "decimal"})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "decimal", schemaErr.Type)

	_, err = ToSchema(map[string]any{"type": "object", "properties": map[string]any{"x": map[string]any{"type": "tuple"}}})
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), `property "x"`)

	_, err = ToSchema(map[string]any{"type": []any{"string", "integer"}})
	require.ErrorAs(t, err, &schemaErr)

	_, err = ToSchema(42)
	var typeErr *TypeConversionError
	require.ErrorAs(t, err, &typeErr)
}
