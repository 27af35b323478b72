package concsearch

import "context"

// HealthStatus represents the settings store health.
type HealthStatus struct {
	Status string            // "ok", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the settings store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
