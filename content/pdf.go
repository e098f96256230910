package content

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

const pdfMIMEType = "application/pdf"

// Document is a PDF file sent to the model as inline data.
type Document struct {
	Data  []byte
	Pages int
}

// ReadPDF checks that data is a readable PDF and records its page count.
func ReadPDF(data []byte) (*Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("content: read pdf: %w", err)
	}
	return &Document{Data: data, Pages: r.NumPage()}, nil
}

// OpenPDF reads the PDF file at path.
func OpenPDF(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: open pdf %q: %w", path, err)
	}
	return ReadPDF(data)
}

// Text extracts the document's plain text, for models or callers that want
// a text part instead of the raw file.
func (d *Document) Text() (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(d.Data), int64(len(d.Data)))
	if err != nil {
		return "", fmt.Errorf("content: read pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("content: extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("content: extract pdf text: %w", err)
	}
	return buf.String(), nil
}
