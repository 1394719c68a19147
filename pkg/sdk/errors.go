package browsekit

import "github.com/kailas-cloud/browsekit/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrWrongMode      = domain.ErrWrongMode
	ErrDataSource     = domain.ErrDataSource
)
