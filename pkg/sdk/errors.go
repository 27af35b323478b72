package concsearch

import (
	"github.com/kailas-cloud/concsearch/internal/domain"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest  = domain.ErrInvalidRequest
	ErrInvalidQuery    = query.ErrInvalidQuery
	ErrIndexNotFound   = domain.ErrIndexNotFound
	ErrCorruptSettings = domain.ErrCorruptSettings
)
