package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skidpad/skid"
)

// Mark is one stored skidmark sample
type Mark struct {
	Position  mgl64.Vec2
	Intensity float64
	Wheel     int
}

// Trail is a fixed-capacity ring of skidmarks; the oldest marks are overwritten
// Safe for concurrent use: the simulation adds while the draw loop reads
type Trail struct {
	mu    sync.Mutex
	marks []Mark
	head  int // next write slot
	count int
}

func NewTrail(capacity int) *Trail {
	return &Trail{marks: make([]Mark, max(capacity, 1))}
}

// Add stores one mark per event
func (t *Trail) Add(events []skid.Event) {
	if len(events) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range events {
		t.marks[t.head] = Mark{Position: e.Position, Intensity: e.Intensity, Wheel: e.Wheel}
		t.head = (t.head + 1) % len(t.marks)
		t.count = min(t.count+1, len(t.marks))
	}
}

func (t *Trail) Clear() {
	t.mu.Lock()
	t.head, t.count = 0, 0
	t.mu.Unlock()
}

func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *Trail) Cap() int { return len(t.marks) }

// Snapshot appends the stored marks to dst, oldest first
func (t *Trail) Snapshot(dst []Mark) []Mark {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := (t.head - t.count + len(t.marks)) % len(t.marks)
	for i := 0; i < t.count; i++ {
		dst = append(dst, t.marks[(start+i)%len(t.marks)])
	}
	return dst
}
