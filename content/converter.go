package content

import (
	"image/jpeg"
	"strings"

	"google.golang.org/genai"
)

// DefaultImageFormat is the encoding used for images that carry no format
// of their own.
const DefaultImageFormat = "png"

// Converter turns loose prompt values into genai wire types. The zero value
// is not usable; build one with NewConverter.
type Converter struct {
	imageFormat string
	jpegQuality int
}

// Option configures a Converter.
type Option func(*Converter)

// WithImageFormat sets the format used for images without a known source
// format. Formats without an encoder are ignored.
func WithImageFormat(format string) Option {
	return func(c *Converter) {
		format = normalizeFormat(format)
		if canEncode(format) {
			c.imageFormat = format
		}
	}
}

// WithJPEGQuality sets the quality used when images are re-encoded as JPEG.
func WithJPEGQuality(quality int) Option {
	return func(c *Converter) {
		if quality >= 1 && quality <= 100 {
			c.jpegQuality = quality
		}
	}
}

// NewConverter returns a Converter with PNG output and default JPEG quality.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		imageFormat: DefaultImageFormat,
		jpegQuality: jpeg.DefaultQuality,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImageFormat returns the fallback image format.
func (c *Converter) ImageFormat() string {
	return c.imageFormat
}

var std = NewConverter()

// ToBlob converts v with the default Converter.
func ToBlob(v any) (*genai.Blob, error) { return std.ToBlob(v) }

// ToPart converts v with the default Converter.
func ToPart(v any) (*genai.Part, error) { return std.ToPart(v) }

// ToContent converts v with the default Converter.
func ToContent(v any) (*genai.Content, error) { return std.ToContent(v) }

// StrictToContent converts v with the default Converter.
func StrictToContent(v any) (*genai.Content, error) { return std.StrictToContent(v) }

// ToContents converts v with the default Converter.
func ToContents(v any) ([]*genai.Content, error) { return std.ToContents(v) }

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}
