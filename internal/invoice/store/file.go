package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/booky/internal/encoding"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// File keeps the document as a single JSON file on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(ctx context.Context) (*invoice.Document, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer fh.Close()

	body, err := encoding.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return decode(body)
}

// Save writes to a temporary file in the same directory and renames it over
// the document, so readers never observe a partial write.
func (f *File) Save(ctx context.Context, doc *invoice.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}

	return nil
}

// decode treats a blank body as "nothing saved yet".
func decode(body []byte) (*invoice.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, invoice.ErrNotFound
	}

	var doc invoice.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return &doc, nil
}
