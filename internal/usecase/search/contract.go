package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/usecase/decider"
)

// SettingsReader loads per-index settings.
type SettingsReader interface {
	Get(ctx context.Context, name string) (settings.Index, error)
}

// Recorder receives decision events and the final plan.
type Recorder interface {
	decider.Observer
	Plan(mode string, concurrent bool, took time.Duration)
}
