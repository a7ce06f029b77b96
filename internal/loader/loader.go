// Package loader reads project networks from JSON and HCL files.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

// ErrFormat marks input that could not be decoded into a definition.
var ErrFormat = fmt.Errorf("%w: malformed definition", network.ErrConfig)

// Load reads the file at path and builds a validated network from it.
// The format is chosen by extension: .json or .hcl.
func Load(path string) (*network.Network, error) {
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	n, err := network.New(def)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return n, nil
}

// LoadDefinition decodes the file at path without validating it.
func LoadDefinition(path string) (network.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return network.Definition{}, fmt.Errorf("read network file: %w", err)
	}

	var def network.Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		def, err = ParseJSON(data)
	case ".hcl":
		def, err = ParseHCL(data, path)
	default:
		return def, fmt.Errorf("%w: unsupported file extension %q", ErrFormat, ext)
	}
	if err != nil {
		return def, fmt.Errorf("load %s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// Save writes def to path in the format matching its extension.
func Save(path string, def network.Definition) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = EncodeJSON(def)
		if err != nil {
			return err
		}
	case ".hcl":
		data = EncodeHCL(def)
	default:
		return fmt.Errorf("%w: unsupported file extension %q", ErrFormat, ext)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write network file: %w", err)
	}
	return nil
}
