package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Loader fetches raw template source for a key. Loaders must be idempotent:
// concurrent cache misses for the same key may invoke Load more than once.
type Loader interface {
	Load(ctx context.Context, key Key) (string, error)
}

// FSLoader reads templates from a filesystem laid out as
// {root}/{locale}/{name}, where name already carries the channel folder and
// extension resolved from the manifest, e.g. "email/center-created.html".
type FSLoader struct {
	fsys fs.FS
	root string
}

// NewFSLoader creates a loader reading from root within fsys.
func NewFSLoader(fsys fs.FS, root string) *FSLoader {
	return &FSLoader{fsys: fsys, root: root}
}

func (l *FSLoader) Load(ctx context.Context, key Key) (string, error) {
	p := path.Join(l.root, key.Locale, key.Name)
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
		}
		return "", fmt.Errorf("reading template %s: %w", p, err)
	}
	return string(data), nil
}
