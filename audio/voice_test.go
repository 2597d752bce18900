package audio

import (
	"math"
	"testing"
	"time"
)

func stream(v *Voice, n int) [][2]float64 {
	buf := make([][2]float64, n)
	for off := 0; off < n; off += 512 {
		end := min(off+512, n)
		if got, ok := v.Stream(buf[off:end]); !ok || got != end-off {
			panic("voice stream ended")
		}
	}
	return buf
}

func TestVoiceSinePitch(t *testing.T) {
	v := NewVoice(WaveSine, sampleRate, 0)
	v.SetTarget(100, 0.5)

	buf := stream(v, int(sampleRate))
	crossings := 0
	peak := 0.0
	for i := 1; i < len(buf); i++ {
		if (buf[i-1][0] < 0) != (buf[i][0] < 0) {
			crossings++
		}
		peak = max(peak, math.Abs(buf[i][0]))
		if buf[i][0] != buf[i][1] {
			t.Fatalf("Expected identical channels at sample %d", i)
		}
	}
	if crossings < 198 || crossings > 201 {
		t.Errorf("Expected ~200 zero crossings for 100 Hz over 1s, got %d", crossings)
	}
	if peak > 0.5+1e-9 || peak < 0.49 {
		t.Errorf("Expected peak ~0.5, got %v", peak)
	}
}

func TestVoiceSilentAtZeroGain(t *testing.T) {
	v := NewVoice(WaveNoise, sampleRate, 0)
	for _, s := range stream(v, 4800) {
		if s[0] != 0 {
			t.Fatalf("Expected silence from a voice with no target, got %v", s[0])
		}
	}
}

func TestVoiceGlides(t *testing.T) {
	v := NewVoice(WaveSquare, sampleRate, 50*time.Millisecond)
	v.SetTarget(200, 0.4)

	buf := stream(v, int(sampleRate)/2)
	if first := math.Abs(buf[0][0]); first > 0.01 {
		t.Errorf("Expected a gradual onset, first sample %v", first)
	}
	if last := math.Abs(buf[len(buf)-1][0]); math.Abs(last-0.4) > 0.01 {
		t.Errorf("Expected level settled near 0.4 after 10 time constants, got %v", last)
	}
}

func TestVoiceLowpassBounded(t *testing.T) {
	v := NewVoice(WaveNoise, sampleRate, 0).WithLowpass(1000)
	v.SetTarget(0, 0.3)

	for i, s := range stream(v, 9600) {
		if math.Abs(s[0]) > 0.3 {
			t.Fatalf("Sample %d out of range: %v", i, s[0])
		}
	}
}
