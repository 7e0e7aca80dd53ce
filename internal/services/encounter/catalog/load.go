package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat indicates a catalog file extension other than .json,
// .yaml, or .yml.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadFile reads and decodes a catalog document without validating it.
func ReadFile(path string) (File, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Decode(data, format)
	if err != nil {
		return File{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Load reads, decodes, and validates a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(f)
}

// Decode parses a catalog document. Unknown fields are rejected.
func Decode(data []byte, format Format) (File, error) {
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f, nil
}

// Encode renders f in the canonical JSON form stored by the catalog store.
func Encode(f File) ([]byte, error) {
	return json.Marshal(f)
}
