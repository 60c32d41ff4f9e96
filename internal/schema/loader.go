package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"pagecraft/internal/domain"
)

// LoadFile parses one widget schema from a YAML file.
func LoadFile(path string) (*domain.WidgetSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read widget schema: %w", err)
	}
	var ws domain.WidgetSchema
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse widget schema %s: %w", filepath.Base(path), err)
	}
	if ws.Type == "" {
		return nil, fmt.Errorf("widget schema %s: missing type", filepath.Base(path))
	}
	return &ws, nil
}

// LoadDir parses every .yml/.yaml file in dir, sorted by filename. A
// missing directory is not an error: custom widgets are optional.
func LoadDir(dir string) ([]*domain.WidgetSchema, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read widget schema dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yml" || ext == ".yaml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	out := make([]*domain.WidgetSchema, 0, len(paths))
	for _, p := range paths {
		ws, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

// LoadInto loads a directory of custom widget schemas into the catalog.
// Returns the types registered.
func LoadInto(c *Catalog, dir string) ([]string, error) {
	schemas, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(schemas))
	for _, ws := range schemas {
		if err := c.Register(ws); err != nil {
			return types, err
		}
		types = append(types, ws.Type)
	}
	return types, nil
}
