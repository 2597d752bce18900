package status

import (
	"fmt"
	"sync/atomic"
)

// Registry is the central metrics facade
// Producers cache pointers once; the tick loop writes directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot flattens every metric into printable values, keyed by metric name
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = fmt.Sprint(v.Load()) })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = fmt.Sprint(v.Load()) })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = fmt.Sprintf("%.3f", v.Get()) })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
