package app

import "errors"

// Sentinel kinds for evaluation errors.
//
// ErrMissingArtifact is never returned from Evaluate; it classifies Skip
// values so callers can match them with errors.Is.
var (
	ErrMissingArtifact   = errors.New("missing trained artifact")
	ErrPredictionFailure = errors.New("prediction failed")
	ErrNoDataset         = errors.New("no dataset")
)
