package decl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a declaration file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return ""
}

// FormatOf returns the format implied by the file extension. Anything other
// than `.json` is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads the declaration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path, FormatOf(path))
}

// Parse decodes declarations from data. name is recorded as the file of every
// position.
func Parse(data []byte, name string, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := newJSONReader(data).decode(&f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	for i, st := range f.SumTypes {
		if st.Name == "" {
			return nil, fmt.Errorf("%s: sum type #%d has no name", name, i+1)
		}
		for j, v := range st.Variants {
			if v.Name == "" {
				return nil, fmt.Errorf("%s: variant #%d of %s has no name", name, j+1, st.Name)
			}
		}
	}
	f.setFile(name)
	return &f, nil
}
