package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat provides atomic float64 operations using bit conversion
// Zero value is ready to use (represents 0.0)
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add atomically adds delta and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// SetMax stores val if it exceeds the current value, used for peak tracking
func (f *AtomicFloat) SetMax(val float64) {
	for {
		old := f.bits.Load()
		if math.Float64frombits(old) >= val {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(val)) {
			return
		}
	}
}
