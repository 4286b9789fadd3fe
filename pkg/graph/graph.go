package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netarc/pkg/errors"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// FormatFromPath returns the diagram format implied by the file extension.
// Unknown extensions default to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadDiagramFile reads and validates a diagram file. The format follows
// the file extension.
func ReadDiagramFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDiagram(f, FormatFromPath(path))
}

// ReadDiagram decodes and validates a diagram in the given format.
func ReadDiagram(r io.Reader, format string) (*Diagram, error) {
	var d Diagram
	var err error
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&d)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "decode %s diagram", format)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UnmarshalDiagram decodes a JSON diagram.
func UnmarshalDiagram(data []byte) (*Diagram, error) {
	return ReadDiagram(bytes.NewReader(data), FormatJSON)
}

// MarshalDiagram encodes a diagram as pretty-printed JSON.
func MarshalDiagram(d *Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDiagram(d, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDiagram encodes a diagram in the given format.
func WriteDiagram(d *Diagram, w io.Writer, format string) error {
	var err error
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(d)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(d); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// WriteDiagramFile writes a diagram in the format implied by the extension.
func WriteDiagramFile(d *Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDiagram(d, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
