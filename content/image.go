package content

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded image that remembers the format it was decoded from.
type Image struct {
	image.Image
	// Format is the lowercase format name reported by image.Decode, or
	// empty when the image was built in memory.
	Format string
}

// ImageFile is an image kept in its original encoding, as read from disk.
type ImageFile struct {
	Data   []byte
	Format string
}

// DecodeImage decodes r with any registered decoder.
func DecodeImage(r io.Reader) (*Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("content: decode image: %w", err)
	}
	return &Image{Image: img, Format: format}, nil
}

// NewImageFile wraps already encoded image bytes, detecting their format.
func NewImageFile(data []byte) (*ImageFile, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("content: detect image format: %w", err)
	}
	return &ImageFile{Data: data, Format: format}, nil
}

// OpenImage reads the image file at path without decoding its pixels.
func OpenImage(path string) (*ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: open image %q: %w", path, err)
	}
	return NewImageFile(data)
}

// MIMEType returns the MIME type of the image's own encoding.
func (f *ImageFile) MIMEType() string {
	return "image/" + normalizeFormat(f.Format)
}

func canEncode(format string) bool {
	switch format {
	case "png", "jpeg", "gif", "bmp", "tiff":
		return true
	}
	return false
}

// jfifHeader is the APP0 segment most JPEG producers write after SOI.
var jfifHeader = []byte{
	0xFF, 0xE0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01,
	0x00,
	0x00, 0x01, 0x00, 0x01,
	0x00, 0x00,
}

// encodeImage serializes img in format, or in the converter's default
// format when format has no encoder. It returns the format actually used.
func (c *Converter) encodeImage(img image.Image, format string) ([]byte, string, error) {
	format = normalizeFormat(format)
	if !canEncode(format) {
		format = c.imageFormat
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.jpegQuality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, nil)
	default:
		format = "png"
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("content: encode %s image: %w", format, err)
	}

	data := buf.Bytes()
	if format == "jpeg" && len(data) > 4 && !(data[2] == 0xFF && data[3] == 0xE0) {
		out := make([]byte, 0, len(data)+len(jfifHeader))
		out = append(out, data[:2]...)
		out = append(out, jfifHeader...)
		data = append(out, data[2:]...)
	}
	return data, format, nil
}
