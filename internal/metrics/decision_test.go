package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsEvents(t *testing.T) {
	r := NewRecorder()

	optOuts := testutil.ToFloat64(DeciderOptOutsTotal.WithLabelValues("knn"))
	r.OptOut("knn")
	if got := testutil.ToFloat64(DeciderOptOutsTotal.WithLabelValues("knn")); got != optOuts+1 {
		t.Errorf("opt outs = %f, want %f", got, optOuts+1)
	}

	decisions := testutil.ToFloat64(DecisionsTotal.WithLabelValues("default", "true"))
	r.Decision("default", "true")
	if got := testutil.ToFloat64(DecisionsTotal.WithLabelValues("default", "true")); got != decisions+1 {
		t.Errorf("decisions = %f, want %f", got, decisions+1)
	}

	shorts := testutil.ToFloat64(ShortCircuitsTotal)
	r.ShortCircuit()
	if got := testutil.ToFloat64(ShortCircuitsTotal); got != shorts+1 {
		t.Errorf("short circuits = %f, want %f", got, shorts+1)
	}

	plans := testutil.ToFloat64(PlansTotal.WithLabelValues("auto", "true"))
	r.Plan("auto", true, 50*time.Microsecond)
	if got := testutil.ToFloat64(PlansTotal.WithLabelValues("auto", "true")); got != plans+1 {
		t.Errorf("plans = %f, want %f", got, plans+1)
	}
	if testutil.CollectAndCount(PlanDuration) == 0 {
		t.Error("expected plan duration observations")
	}
}

func TestRegisterDecisionMetrics_Idempotent(t *testing.T) {
	RegisterDecisionMetrics()
	RegisterDecisionMetrics()
}
