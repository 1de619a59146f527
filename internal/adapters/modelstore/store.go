// Package modelstore resolves trained models and their feature lists by
// target name.
package modelstore

import (
	"context"
	"errors"

	"github.com/okian/gridcast/internal/domain/model"
)

// Sentinel kinds for model store errors.
var (
	ErrDecode = errors.New("decode artifact failed")
)

// Store provides read access to trained artifacts. Either mapping may lack
// entries for some targets; absence is not an error.
type Store interface {
	// LoadModels returns the available models among targets.
	LoadModels(ctx context.Context, targets []string) (map[string]model.Model, error)
	// LoadFeatureLists returns the ordered input columns per target.
	LoadFeatureLists(ctx context.Context) (map[string][]string, error)
}

// Memory is a Store backed by maps.
type Memory struct {
	Models   map[string]model.Model
	Features map[string][]string
}

// LoadModels implements Store.
func (m *Memory) LoadModels(_ context.Context, targets []string) (map[string]model.Model, error) {
	out := make(map[string]model.Model, len(targets))
	for _, t := range targets {
		if mdl, ok := m.Models[t]; ok && mdl != nil {
			out[t] = mdl
		}
	}
	return out, nil
}

// LoadFeatureLists implements Store.
func (m *Memory) LoadFeatureLists(_ context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(m.Features))
	for t, cols := range m.Features {
		out[t] = append([]string(nil), cols...)
	}
	return out, nil
}
