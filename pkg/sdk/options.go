package concsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "memory", "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string

	mode          Mode
	maxSliceCount int
	indexes       []IndexSettings
	deciders      []Decider
	builtins      bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores index settings in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores index settings in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemory keeps index settings in process memory (default).
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.addrs = nil
	})
}

// WithKeyPrefix namespaces settings keys. Default: "concsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithClusterMode sets the cluster-wide concurrent search mode. Default: auto.
func WithClusterMode(m Mode) Option {
	return optionFunc(func(c *clientConfig) {
		c.mode = m
	})
}

// WithMaxSliceCount sets the number of segment slices of a concurrent plan. Default: 4.
func WithMaxSliceCount(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSliceCount = n
	})
}

// WithIndex adds static settings used when none are stored for the index.
func WithIndex(s IndexSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexes = append(c.indexes, s)
	})
}

// WithDecider registers a custom decider. Order of registration is kept.
func WithDecider(d Decider) Option {
	return optionFunc(func(c *clientConfig) {
		c.deciders = append(c.deciders, d)
	})
}

// WithBuiltinDeciders registers the knn and clause kind deciders.
func WithBuiltinDeciders() Option {
	return optionFunc(func(c *clientConfig) {
		c.builtins = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations and
// plan outcomes) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
