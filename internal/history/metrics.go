package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OpExecute          = "execute"
	OpUndo             = "undo"
	OpRedo             = "redo"
	OpCheckpoint       = "checkpoint"
	OpUndoToCheckpoint = "undo_to_checkpoint"
	OpSelectiveUndo    = "selective_undo"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics holds the history collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	merges     prometheus.Counter
	evictions  prometheus.Counter
	undoDepth  prometheus.Gauge
	redoDepth  prometheus.Gauge
}

// NewMetrics registers the history collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keyframe_history_operations_total",
			Help: "History operations by kind and result",
		}, []string{"op", "result"}),
		merges: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyframe_history_merges_total",
			Help: "Commands coalesced into the previous history entry",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyframe_history_evictions_total",
			Help: "Oldest entries dropped by the history cap",
		}),
		undoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "keyframe_history_undo_depth",
			Help: "Current number of entries on the undo stack",
		}),
		redoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "keyframe_history_redo_depth",
			Help: "Current number of entries on the redo stack",
		}),
	}
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) merged() {
	if m != nil {
		m.merges.Inc()
	}
}

func (m *Metrics) evicted(n int) {
	if m != nil && n > 0 {
		m.evictions.Add(float64(n))
	}
}

func (m *Metrics) depth(undo, redo int) {
	if m == nil {
		return
	}
	m.undoDepth.Set(float64(undo))
	m.redoDepth.Set(float64(redo))
}
