package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapAdapter serves translations from an in-memory map.
// Useful for tests and for catalogs compiled into the binary.
type MapAdapter map[string]map[string]any

func (a MapAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	return a, nil
}

// FSAdapter loads one catalog file per language from a filesystem directory.
// File names determine the language code: "en.yaml", "pt-BR.json", etc.
// Supported formats are YAML (.yaml/.yml) and JSON (.json).
type FSAdapter struct {
	fsys fs.FS
	dir  string
}

// NewFSAdapter creates an adapter reading catalogs from dir within fsys.
func NewFSAdapter(fsys fs.FS, dir string) *FSAdapter {
	return &FSAdapter{fsys: fsys, dir: dir}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %q: %w", a.dir, err)
	}

	translations := make(map[string]map[string]any)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		lang := strings.TrimSuffix(name, path.Ext(name))
		if lang == "" {
			continue
		}

		data, err := fs.ReadFile(a.fsys, path.Join(a.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading catalog %q: %w", name, err)
		}

		var catalog map[string]any
		switch ext {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &catalog); err != nil {
				return nil, fmt.Errorf("parsing catalog %q: %w", name, err)
			}
		case ".json":
			if err := json.Unmarshal(data, &catalog); err != nil {
				return nil, fmt.Errorf("parsing catalog %q: %w", name, err)
			}
		default:
			continue
		}

		translations[lang] = catalog
	}

	return translations, nil
}
