package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/gridcast/internal/domain/model"
)

// FeatureListFile is the name of the feature list index inside a model directory.
const FeatureListFile = "feature_cols.json"

// Dir loads linear models stored as <dir>/<target>.json and feature lists
// from <dir>/feature_cols.json.
type Dir struct {
	Root string
}

// NewDir returns a directory-backed store.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// LoadModels implements Store. Targets without a model file are omitted.
func (d *Dir) LoadModels(ctx context.Context, targets []string) (map[string]model.Model, error) {
	out := make(map[string]model.Model, len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var lin model.Linear
		found, err := d.readJSON(t+".json", &lin)
		if err != nil {
			return nil, err
		}
		if found {
			out[t] = &lin
		}
	}
	return out, nil
}

// LoadFeatureLists implements Store. A missing index yields an empty mapping.
func (d *Dir) LoadFeatureLists(_ context.Context) (map[string][]string, error) {
	out := make(map[string][]string)
	if _, err := d.readJSON(FeatureListFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dir) readJSON(name string, v any) (bool, error) {
	path := filepath.Join(d.Root, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return true, nil
}
