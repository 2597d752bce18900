package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// MaxStringLen bounds stored diagnostics in bytes so a HUD line stays short
const MaxStringLen = 96

const ellipsis = "…"

// AtomicString is a lock-free string cell for diagnostics; the zero value holds ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, cut on a rune boundary to at most MaxStringLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		cut := MaxStringLen - len(ellipsis)
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut] + ellipsis
	}
	s.ptr.Store(&val)
}

// StoreError records the message of err, or clears the cell when err is nil
func (s *AtomicString) StoreError(err error) {
	if err == nil {
		s.Store("")
		return
	}
	s.Store(err.Error())
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
