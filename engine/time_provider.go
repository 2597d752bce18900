package engine

import "time"

// TimeProvider is the wall clock source for scheduling; tests swap in ManualClock
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock, monotonic reading included
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

func (*MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
