package content

import (
	"encoding/base64"
	"fmt"
	"image"

	"google.golang.org/genai"
)

// ToBlob converts an image-like value into a genai.Blob.
//
// Accepted values, in order of precedence:
//   - *genai.Blob, genai.Blob
//   - map[string]any with "mime_type" (or "mimeType") and "data" keys; data
//     may be []byte or a base64 string
//   - *ImageFile, whose bytes are used as-is
//   - *Image, re-encoded in its source format
//   - image.Image, encoded in the converter's default format
//   - *Document
func (c *Converter) ToBlob(v any) (*genai.Blob, error) {
	switch v := v.(type) {
	case *genai.Blob:
		if v == nil {
			return nil, typeError("Blob", v)
		}
		return v, nil
	case genai.Blob:
		return &v, nil
	case map[string]any:
		return blobFromMap(v)
	case *ImageFile:
		return c.imageFileToBlob(v)
	case *Image:
		if v == nil || v.Image == nil {
			return nil, typeError("Blob", v)
		}
		return c.imageToBlob(v.Image, v.Format)
	case image.Image:
		return c.imageToBlob(v, "")
	case *Document:
		if v == nil {
			return nil, typeError("Blob", v)
		}
		return &genai.Blob{MIMEType: pdfMIMEType, Data: v.Data}, nil
	}
	return nil, typeError("Blob", v)
}

func (c *Converter) imageToBlob(img image.Image, format string) (*genai.Blob, error) {
	data, format, err := c.encodeImage(img, format)
	if err != nil {
		return nil, err
	}
	return &genai.Blob{MIMEType: "image/" + format, Data: data}, nil
}

func (c *Converter) imageFileToBlob(f *ImageFile) (*genai.Blob, error) {
	if f == nil {
		return nil, typeError("Blob", f)
	}
	if f.Format == "" {
		detected, err := NewImageFile(f.Data)
		if err != nil {
			return nil, &TypeConversionError{Target: "Blob", Value: f, Reason: err.Error()}
		}
		f = detected
	}
	return &genai.Blob{MIMEType: f.MIMEType(), Data: f.Data}, nil
}

// isBlobMap reports whether m has the keys of a blob mapping.
func isBlobMap(m map[string]any) bool {
	_, hasData := m["data"]
	return hasData && mimeKey(m) != ""
}

func mimeKey(m map[string]any) string {
	for _, k := range []string{"mime_type", "mimeType"} {
		if _, ok := m[k]; ok {
			return k
		}
	}
	return ""
}

func blobFromMap(m map[string]any) (*genai.Blob, error) {
	if !isBlobMap(m) {
		return nil, keyError("Blob", m)
	}

	mimeType, ok := m[mimeKey(m)].(string)
	if !ok {
		return nil, &TypeConversionError{Target: "Blob", Value: m, Reason: "mime_type must be a string"}
	}

	var data []byte
	switch d := m["data"].(type) {
	case []byte:
		data = d
	case string:
		decoded, err := base64.StdEncoding.DecodeString(d)
		if err != nil {
			return nil, &TypeConversionError{Target: "Blob", Value: m, Reason: fmt.Sprintf("data is not base64: %v", err)}
		}
		data = decoded
	default:
		return nil, &TypeConversionError{Target: "Blob", Value: m, Reason: fmt.Sprintf("data must be []byte or base64 string, got %T", d)}
	}

	return &genai.Blob{MIMEType: mimeType, Data: data}, nil
}
