// Package provider supplies the preprocessed dataset the evaluator scores.
package provider

import (
	"context"
	"errors"

	"github.com/okian/gridcast/internal/domain/dataset"
)

// Sentinel kinds for provider errors.
var (
	ErrNoData     = errors.New("provider has no data")
	ErrParseInput = errors.New("parse input failed")
)

// Provider produces a fully numeric, timestamped dataset.
type Provider interface {
	Produce(ctx context.Context) (*dataset.Dataset, error)
}

// Static returns a dataset built elsewhere.
type Static struct {
	Data *dataset.Dataset
}

// Produce implements Provider.
func (s Static) Produce(_ context.Context) (*dataset.Dataset, error) {
	if s.Data == nil {
		return nil, ErrNoData
	}
	return s.Data, nil
}
