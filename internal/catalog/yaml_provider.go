package catalog

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed nodes.yaml
var embeddedCatalog []byte

type catalogFile struct {
	NodeTypes []NodeType `yaml:"nodeTypes"`
}

// LoadEmbedded parses the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	types, err := parseCatalog(embeddedCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog is invalid: %w", err)
	}
	return New(types), nil
}

// Load builds the catalog from the embedded definitions, overlaid with any
// YAML files found in dir. A definition in dir with the same node type name
// replaces the embedded one. An empty dir means embedded only.
func Load(dir string) (*Catalog, error) {
	types, err := parseCatalog(embeddedCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog is invalid: %w", err)
	}

	if dir != "" {
		extra, err := loadDir(dir)
		if err != nil {
			return nil, err
		}
		types = mergeTypes(types, extra)
	}

	return New(types), nil
}

func loadDir(dir string) ([]NodeType, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var types []NodeType
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLFile(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		parsed, err := parseCatalog(data)
		if err != nil {
			return fmt.Errorf("failed to parse catalog file %s: %w", path, err)
		}
		types = append(types, parsed...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}
	return types, nil
}

func parseCatalog(data []byte) ([]NodeType, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, nt := range file.NodeTypes {
		if nt.Name == "" {
			return nil, fmt.Errorf("node type %d: name is required", i)
		}
		if nt.DisplayName == "" {
			return nil, fmt.Errorf("node type %d (%s): displayName is required", i, nt.Name)
		}
		if nt.Description == "" {
			return nil, fmt.Errorf("node type %d (%s): description is required", i, nt.Name)
		}
	}
	return file.NodeTypes, nil
}

func mergeTypes(base, overlay []NodeType) []NodeType {
	index := make(map[string]int, len(base))
	for i, nt := range base {
		index[nt.Name] = i
	}
	for _, nt := range overlay {
		if i, ok := index[nt.Name]; ok {
			base[i] = nt
			continue
		}
		index[nt.Name] = len(base)
		base = append(base, nt)
	}
	return base
}

func isYAMLFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
