package dataset

import (
	"errors"
	"fmt"
)

// Sentinel kinds for dataset errors.
var (
	ErrSchemaViolation  = errors.New("dataset schema violation")
	ErrMissingTimestamp = fmt.Errorf("%w: missing timestamp column", ErrSchemaViolation)
	ErrRaggedColumns    = errors.New("dataset columns have unequal lengths")
)
