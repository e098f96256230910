package content

import (
	"iter"
	"reflect"

	"google.golang.org/genai"
)

// ToContent converts v into a single conversation turn.
//
//   - *genai.Content and genai.Content are returned unchanged.
//   - A mapping with a "parts" key becomes a Content whose parts are each
//     converted with ToPart; an optional "role" is kept.
//   - A mapping without "parts" is converted as one Part.
//   - A slice or iterator is treated as the list of parts.
//   - Any other value is converted as one Part.
func (c *Converter) ToContent(v any) (*genai.Content, error) {
	if content, ok, err := c.fullContent(v); ok || err != nil {
		return content, err
	}

	if items, ok := sequence(v); ok {
		if len(items) == 0 {
			return nil, &TypeConversionError{Target: "Content", Value: v, Reason: "no parts"}
		}
		parts, err := c.toParts(items)
		if err != nil {
			return nil, err
		}
		return &genai.Content{Parts: parts}, nil
	}

	part, err := c.ToPart(v)
	if err != nil {
		return nil, err
	}
	return &genai.Content{Parts: []*genai.Part{part}}, nil
}

// StrictToContent accepts only values that describe a whole turn: a
// genai.Content or a mapping with "parts". Bare strings, parts, slices and
// iterators are rejected so that a single part is never mistaken for a turn.
func (c *Converter) StrictToContent(v any) (*genai.Content, error) {
	content, ok, err := c.fullContent(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &TypeConversionError{Target: "Content", Value: v, Reason: "expected a Content or a mapping with parts"}
	}
	return content, nil
}

// ToContents converts v into a list of turns. Each element of a slice or
// iterator is converted with ToContent; any other value becomes a single
// turn.
func (c *Converter) ToContents(v any) ([]*genai.Content, error) {
	if v == nil {
		return nil, typeError("[]Content", v)
	}

	items, ok := sequence(v)
	if !ok {
		content, err := c.ToContent(v)
		if err != nil {
			return nil, err
		}
		return []*genai.Content{content}, nil
	}

	contents := make([]*genai.Content, 0, len(items))
	for _, item := range items {
		content, err := c.ToContent(item)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, nil
}

// fullContent handles the shapes shared by the lenient and strict
// resolvers. ok is false when v is neither.
func (c *Converter) fullContent(v any) (*genai.Content, bool, error) {
	switch v := v.(type) {
	case *genai.Content:
		if v == nil {
			return nil, false, typeError("Content", v)
		}
		return v, true, nil
	case genai.Content:
		return &v, true, nil
	case map[string]any:
		raw, ok := v["parts"]
		if !ok {
			return nil, false, nil
		}
		content, err := c.contentFromMap(v, raw)
		return content, true, err
	}
	return nil, false, nil
}

func (c *Converter) contentFromMap(m map[string]any, raw any) (*genai.Content, error) {
	content := &genai.Content{}
	for k, val := range m {
		switch k {
		case "parts":
		case "role":
			role, ok := val.(string)
			if !ok {
				return nil, &TypeConversionError{Target: "Content", Value: m, Reason: "role must be a string"}
			}
			content.Role = role
		default:
			return nil, keyError("Content", m)
		}
	}

	items, ok := sequence(raw)
	if !ok {
		items = []any{raw}
	}
	parts, err := c.toParts(items)
	if err != nil {
		return nil, err
	}
	content.Parts = parts
	return content, nil
}

func (c *Converter) toParts(items []any) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(items))
	for _, item := range items {
		part, err := c.ToPart(item)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// sequence flattens slices, arrays and iterators into []any. Strings and
// []byte are values, not sequences.
func sequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return v, true
	case iter.Seq[any]:
		return collect(v), true
	case iter.Seq[string]:
		return collect(v), true
	case iter.Seq[*genai.Part]:
		return collect(v), true
	case iter.Seq[map[string]any]:
		return collect(v), true
	case iter.Seq[*genai.Content]:
		return collect(v), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	}
	return nil, false
}

func collect[T any](seq iter.Seq[T]) []any {
	var items []any
	for item := range seq {
		items = append(items, item)
	}
	return items
}
