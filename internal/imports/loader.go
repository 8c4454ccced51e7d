// Package imports reads export and seed files into problem records.
package imports

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of an import file.
type Loader struct {
	filePath string
}

// NewLoader creates a new import file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the watched file path.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the import file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON or YAML document. JSON exports are valid YAML, so a
// single decoder serves both.
func Parse(data []byte) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, nil
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	return file, nil
}
