package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelDoc    = "document"
	labelResult = "result"
)

type instrumented struct {
	Store
	ops     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// Instrument wraps s so every Load and Save is counted and timed on reg.
func Instrument(s Store, reg prometheus.Registerer) Store {
	i := &instrumented{
		Store: s,
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docstore_operations_total",
				Help: "Document loads and saves by result",
			},
			[]string{labelOp, labelDoc, labelResult},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "docstore_operation_duration_seconds",
				Help: "Document load/save latency",
			},
			[]string{labelOp, labelDoc},
		),
	}

	reg.MustRegister(i.ops, i.latency)
	return i
}

func (i *instrumented) Load(ctx context.Context, name string, v any) error {
	start := time.Now()
	err := i.Store.Load(ctx, name, v)
	i.observe("load", name, start, err)
	return err
}

func (i *instrumented) Save(ctx context.Context, name string, v any) error {
	start := time.Now()
	err := i.Store.Save(ctx, name, v)
	i.observe("save", name, start, err)
	return err
}

func (i *instrumented) observe(op, name string, start time.Time, err error) {
	i.latency.WithLabelValues(op, name).Observe(time.Since(start).Seconds())
	i.ops.WithLabelValues(op, name, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCorrupt):
		return "corrupt"
	default:
		return "error"
	}
}
