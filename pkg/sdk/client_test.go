package concsearch

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
	if c.Cluster().Mode != ModeAuto || c.Cluster().MaxSliceCount != 4 {
		t.Errorf("cluster = %+v", c.Cluster())
	}
	if got := c.Deciders(); len(got) != 1 || got[0] != "default" {
		t.Errorf("deciders = %v", got)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"mode", WithClusterMode("sometimes")},
		{"slice count", WithMaxSliceCount(-1)},
		{"index clause", WithIndex(IndexSettings{Name: "x", DisabledClauses: []ClauseKind{"fuzzy"}})},
		{"index name", WithIndex(IndexSettings{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCreateStore(t *testing.T) {
	if _, err := createStore(&clientConfig{driver: "unknown"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := createStore(&clientConfig{driver: "valkey"}); err == nil {
		t.Error("expected error for valkey without address")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("valkey cfg = %+v", cfg)
	}

	WithRedis("localhost:6380", "pass").apply(cfg)
	if cfg.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.driver)
	}

	WithMemory().apply(cfg)
	if cfg.driver != "memory" || cfg.addrs != nil {
		t.Errorf("memory cfg = %+v", cfg)
	}

	WithKeyPrefix("app:").apply(cfg)
	WithClusterMode(ModeNone).apply(cfg)
	WithMaxSliceCount(8).apply(cfg)
	WithBuiltinDeciders().apply(cfg)
	if cfg.keyPrefix != "app:" || cfg.mode != ModeNone || cfg.maxSliceCount != 8 || !cfg.builtins {
		t.Errorf("cfg = %+v", cfg)
	}

	WithIndex(IndexSettings{Name: "a"}).apply(cfg)
	WithIndex(IndexSettings{Name: "b"}).apply(cfg)
	WithDecider(vetoKind{kind: ClauseTerm}).apply(cfg)
	if len(cfg.indexes) != 2 || len(cfg.deciders) != 1 {
		t.Errorf("indexes = %d, deciders = %d", len(cfg.indexes), len(cfg.deciders))
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	obs.OptOut("knn")
	obs.Decision("knn", "true")
	obs.ShortCircuit()
	obs.Plan("auto", true, time.Millisecond)
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("plan", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("plan", time.Now(), errors.New("fail"))
	obs.Plan("auto", false, time.Millisecond)
	obs.Decision("default", "no_opinion")
	obs.OptOut("knn")

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("plan", "error")); got != 1 {
		t.Errorf("plan errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.plans.WithLabelValues("auto", "false")); got != 1 {
		t.Errorf("plans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.optOuts.WithLabelValues("knn")); got != 1 {
		t.Errorf("opt-outs = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "concsearch_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("concsearch_sdk_operations_total not found")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}
	if first.metrics.plans != second.metrics.plans {
		t.Error("expected the registered collector to be reused")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
	obs.ShortCircuit()
}
