package content

import (
	"fmt"
	"image"

	"google.golang.org/genai"
)

// ToPart converts a single unit of content into a genai.Part.
//
// Accepted values, in order of precedence:
//   - *genai.Part, genai.Part
//   - map[string]any keyed by "text", "inline_data", "function_call",
//     "function_response" or "file_data", or shaped like a blob mapping
//   - string
//   - anything ToBlob accepts except mappings
func (c *Converter) ToPart(v any) (*genai.Part, error) {
	switch v := v.(type) {
	case *genai.Part:
		if v == nil {
			return nil, typeError("Part", v)
		}
		return v, nil
	case genai.Part:
		return &v, nil
	case map[string]any:
		return c.partFromMap(v)
	case string:
		return &genai.Part{Text: v}, nil
	}

	if isImageLike(v) {
		blob, err := c.ToBlob(v)
		if err != nil {
			return nil, err
		}
		return &genai.Part{InlineData: blob}, nil
	}
	return nil, typeError("Part", v)
}

func isImageLike(v any) bool {
	switch v.(type) {
	case image.Image, *Image, *ImageFile, *Document, *genai.Blob, genai.Blob:
		return true
	}
	return false
}

func (c *Converter) partFromMap(m map[string]any) (*genai.Part, error) {
	if text, ok := m["text"]; ok {
		s, ok := text.(string)
		if !ok {
			return nil, &TypeConversionError{Target: "Part", Value: m, Reason: fmt.Sprintf("text must be a string, got %T", text)}
		}
		return &genai.Part{Text: s}, nil
	}

	for _, k := range []string{"inline_data", "inlineData"} {
		if data, ok := m[k]; ok {
			blob, err := c.ToBlob(data)
			if err != nil {
				return nil, err
			}
			return &genai.Part{InlineData: blob}, nil
		}
	}

	if fc, ok := m["function_call"]; ok {
		call, err := functionCallFrom(fc)
		if err != nil {
			return nil, err
		}
		return &genai.Part{FunctionCall: call}, nil
	}

	if fr, ok := m["function_response"]; ok {
		resp, err := functionResponseFrom(fr)
		if err != nil {
			return nil, err
		}
		return &genai.Part{FunctionResponse: resp}, nil
	}

	if fd, ok := m["file_data"]; ok {
		file, err := fileDataFrom(fd)
		if err != nil {
			return nil, err
		}
		return &genai.Part{FileData: file}, nil
	}

	if isBlobMap(m) {
		blob, err := blobFromMap(m)
		if err != nil {
			return nil, err
		}
		return &genai.Part{InlineData: blob}, nil
	}

	return nil, keyError("Part", m)
}

func functionCallFrom(v any) (*genai.FunctionCall, error) {
	switch v := v.(type) {
	case *genai.FunctionCall:
		return v, nil
	case map[string]any:
		name, ok := v["name"].(string)
		if !ok {
			return nil, keyError("FunctionCall", v)
		}
		call := &genai.FunctionCall{Name: name}
		if id, ok := v["id"].(string); ok {
			call.ID = id
		}
		if args, ok := v["args"]; ok {
			m, ok := args.(map[string]any)
			if !ok {
				return nil, &TypeConversionError{Target: "FunctionCall", Value: v, Reason: "args must be a mapping"}
			}
			call.Args = m
		}
		return call, nil
	}
	return nil, typeError("FunctionCall", v)
}

func functionResponseFrom(v any) (*genai.FunctionResponse, error) {
	switch v := v.(type) {
	case *genai.FunctionResponse:
		return v, nil
	case map[string]any:
		name, ok := v["name"].(string)
		if !ok {
			return nil, keyError("FunctionResponse", v)
		}
		resp := &genai.FunctionResponse{Name: name}
		if id, ok := v["id"].(string); ok {
			resp.ID = id
		}
		if r, ok := v["response"]; ok {
			m, ok := r.(map[string]any)
			if !ok {
				return nil, &TypeConversionError{Target: "FunctionResponse", Value: v, Reason: "response must be a mapping"}
			}
			resp.Response = m
		}
		return resp, nil
	}
	return nil, typeError("FunctionResponse", v)
}

func fileDataFrom(v any) (*genai.FileData, error) {
	switch v := v.(type) {
	case *genai.FileData:
		return v, nil
	case map[string]any:
		uri, ok := v["file_uri"].(string)
		if !ok {
			return nil, keyError("FileData", v)
		}
		mimeType, _ := v["mime_type"].(string)
		return &genai.FileData{FileURI: uri, MIMEType: mimeType}, nil
	}
	return nil, typeError("FileData", v)
}
