package mastery

import (
	"math"
	"testing"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		ratio float64
		want  float64
	}{
		{"fail", 40, 1.0, -0.20},
		{"slow pass", 95, 1.9, -0.20},
		{"strong", 85, 1.0, 0.15},
		{"strong at ratio bound", 80, 1.2, 0.15},
		{"good but slow", 85, 1.5, 0.05},
		{"plain pass", 65, 1.0, 0.05},
		{"pass boundary", 60, 1.8, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delta(tt.score, tt.ratio); !almostEqual(got, tt.want) {
				t.Errorf("Delta(%v, %v) = %v, want %v", tt.score, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestMap_DefaultAndApply(t *testing.T) {
	m := Map{}
	if got := m.Get("errors"); got != DefaultMastery {
		t.Errorf("Get = %v, want %v", got, DefaultMastery)
	}

	if got := m.Apply("errors", 95, 1.0); !almostEqual(got, 0.65) {
		t.Errorf("Apply strong = %v, want 0.65", got)
	}
	if got := m.Apply("errors", 30, 1.0); !almostEqual(got, 0.45) {
		t.Errorf("Apply fail = %v, want 0.45", got)
	}
}

func TestMap_Clamps(t *testing.T) {
	m := Map{"hi": 0.95, "lo": 0.1}
	if got := m.Apply("hi", 100, 0.5); got != 1 {
		t.Errorf("upper clamp = %v, want 1", got)
	}
	if got := m.Apply("lo", 0, 3); got != 0 {
		t.Errorf("lower clamp = %v, want 0", got)
	}

	m.Set("x", 7)
	if m["x"] != 1 {
		t.Errorf("Set clamp = %v, want 1", m["x"])
	}
}

func TestMap_StaysInRange(t *testing.T) {
	m := Map{}
	scores := []float64{0, 100, 59, 60, 79, 80, 89, 90, 100}
	ratios := []float64{0.1, 1.0, 1.2, 1.21, 1.8, 1.81, 5}
	for i := 0; i < 200; i++ {
		v := m.Apply("t", scores[i%len(scores)], ratios[i%len(ratios)])
		if v < 0 || v > 1 {
			t.Fatalf("step %d mastery = %v out of [0,1]", i, v)
		}
	}
}

func TestStruggling(t *testing.T) {
	if !Struggling(59.9, 1.0) {
		t.Error("59.9 should struggle")
	}
	if Struggling(60, 1.8) {
		t.Error("60 at ratio 1.8 should not struggle")
	}
	if !Struggling(100, 1.81) {
		t.Error("ratio 1.81 should struggle")
	}
}
