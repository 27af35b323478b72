package health

import "context"

// DBPinger checks settings store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
