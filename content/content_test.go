package content

import (
	"bytes"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContent_SingleTextPart(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "genai.Content", input: genai.Content{Parts: []*genai.Part{{Text: "Hello world!"}}}},
		{name: "*genai.Content", input: genai.NewContentFromText("Hello world!", genai.RoleUser)},
		{name: "mapping with parts", input: map[string]any{"parts": []any{map[string]any{"text": "Hello world!"}}}},
		{name: "mapping with string parts", input: map[string]any{"parts": []string{"Hello world!"}}},
		{name: "mapping with single part value", input: map[string]any{"parts": "Hello world!"}},
		{name: "list of parts", input: []*genai.Part{{Text: "Hello world!"}}},
		{name: "list of strings", input: []string{"Hello world!"}},
		{name: "iterator of parts", input: iter.Seq[*genai.Part](slices.Values([]*genai.Part{{Text: "Hello world!"}}))},
		{name: "iterator of strings", input: iter.Seq[string](slices.Values([]string{"Hello world!"}))},
		{name: "bare part", input: &genai.Part{Text: "Hello world!"}},
		{name: "bare text mapping", input: map[string]any{"text": "Hello world!"}},
		{name: "bare string", input: "Hello world!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ToContent(tt.input)
			require.NoError(t, err)
			require.Len(t, c.Parts, 1)
			assert.Equal(t, "Hello world!", c.Parts[0].Text)
		})
	}
}

func TestToContent_KeepsRole(t *testing.T) {
	c, err := ToContent(map[string]any{"role": "model", "parts": []any{"hi", "there"}})
	require.NoError(t, err)
	assert.Equal(t, genai.RoleModel, c.Role)
	require.Len(t, c.Parts, 2)
	assert.Equal(t, "there", c.Parts[1].Text)
}

func TestToContent_MixedParts(t *testing.T) {
	c, err := ToContent([]any{"Describe this image", testImage()})
	require.NoError(t, err)
	require.Len(t, c.Parts, 2)
	assert.Equal(t, "Describe this image", c.Parts[0].Text)
	require.NotNil(t, c.Parts[1].InlineData)
	assert.Equal(t, "image/png", c.Parts[1].InlineData.MIMEType)
	assert.True(t, bytes.HasPrefix(c.Parts[1].InlineData.Data, pngMagic))
}

func TestToContent_Errors(t *testing.T) {
	_, err := ToContent(map[string]any{"bad": "dict"})
	var keyErr *KeyConversionError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, []string{"bad"}, keyErr.Keys)

	_, err = ToContent(map[string]any{"parts": []any{"a"}, "extra": 1})
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, []string{"extra", "parts"}, keyErr.Keys)

	var typeErr *TypeConversionError
	_, err = ToContent([]any{})
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, err.Error(), "no parts")

	_, err = ToContent(map[string]any{"parts": []any{"a"}, "role": 1})
	require.ErrorAs(t, err, &typeErr)

	_, err = ToContent([]any{"ok", 3.5})
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, err.Error(), "cannot convert float64 to Part")
}

func TestStrictToContent(t *testing.T) {
	accepted := []any{
		genai.Content{Parts: []*genai.Part{{Text: "Hello world!"}}},
		&genai.Content{Parts: []*genai.Part{{Text: "Hello world!"}}},
		map[string]any{"parts": []any{map[string]any{"text": "Hello world!"}}},
		map[string]any{"parts": []string{"Hello world!"}},
	}
	for _, in := range accepted {
		c, err := StrictToContent(in)
		require.NoError(t, err)
		require.Len(t, c.Parts, 1)
		assert.Equal(t, "Hello world!", c.Parts[0].Text)
	}

	rejected := []struct {
		name  string
		input any
	}{
		{name: "list of parts", input: []*genai.Part{{Text: "Hello world!"}}},
		{name: "list of strings", input: []string{"Hello world!"}},
		{name: "iterator", input: iter.Seq[*genai.Part](slices.Values([]*genai.Part{{Text: "Hello world!"}}))},
		{name: "bare part", input: &genai.Part{Text: "Hello world!"}},
		{name: "bare text mapping", input: map[string]any{"text": "Hello world!"}},
		{name: "bare string", input: "Hello world!"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StrictToContent(tt.input)
			var typeErr *TypeConversionError
			require.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestToContents(t *testing.T) {
	contents, err := ToContents([]any{
		"first",
		map[string]any{"role": "model", "parts": []any{"second"}},
		[]string{"third", "fourth"},
	})
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, "first", contents[0].Parts[0].Text)
	assert.Equal(t, "model", contents[1].Role)
	assert.Len(t, contents[2].Parts, 2)

	contents, err = ToContents("just one")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "just one", contents[0].Parts[0].Text)

	contents, err = ToContents([]any{})
	require.NoError(t, err)
	assert.Empty(t, contents)

	_, err = ToContents([]any{"ok", map[string]any{"bad": "dict"}})
	var keyErr *KeyConversionError
	require.ErrorAs(t, err, &keyErr)

	_, err = ToContents(nil)
	var typeErr *TypeConversionError
	require.ErrorAs(t, err, &typeErr)
}

func TestConverter_ImageFormatAppliesToContent(t *testing.T) {
	c := NewConverter(WithImageFormat("jpeg"))
	content, err := c.ToContent([]any{testImage()})
	require.NoError(t, err)
	require.Len(t, content.Parts, 1)
	assert.Equal(t, "image/jpeg", content.Parts[0].InlineData.MIMEType)
	assert.True(t, bytes.HasPrefix(content.Parts[0].InlineData.Data, jpegMagic))
}
