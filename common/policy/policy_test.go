package policy

import (
	"testing"
)

const boundingBox = "lat >= 4.5 && lat <= 11.5 && lon >= -3.5 && lon <= 1.5"

func TestEvaluateBoundingBox(t *testing.T) {
	e := NewEvaluator()

	cases := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"accra", 5.6037, -0.1870, true},
		{"tamale", 9.4008, -0.8393, true},
		{"north of box", 12.0, 0.0, false},
		{"west of box", 6.0, -4.0, false},
		{"south of box", 4.0, 0.0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Evaluate(boundingBox, Input{Lat: tc.lat, Lon: tc.lon})
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func TestEvaluateEmptyRulePasses(t *testing.T) {
	e := NewEvaluator()

	got, err := e.Evaluate("", Input{Lat: 99, Lon: 99})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !got {
		t.Error("empty rule should pass everything")
	}
}

func TestEvaluateStringAttributes(t *testing.T) {
	e := NewEvaluator()

	got, err := e.Evaluate(`description.contains("farm") && owner != ""`, Input{
		Description: "farm land near Kumasi",
		Owner:       "0xabc",
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !got {
		t.Error("rule over string attributes should pass")
	}
}

func TestEvaluateInvalidExpression(t *testing.T) {
	e := NewEvaluator()

	if _, err := e.Evaluate("lat >>> 4", Input{}); err == nil {
		t.Error("malformed expression should fail")
	}

	if _, err := e.Evaluate("lat + lon", Input{}); err == nil {
		t.Error("non-boolean expression should fail")
	}
}

func TestEvaluateCachesPrograms(t *testing.T) {
	e := NewEvaluator()

	for i := 0; i < 3; i++ {
		if _, err := e.Evaluate(boundingBox, Input{Lat: 5, Lon: 0}); err != nil {
			t.Fatalf("Evaluate run %d failed: %v", i, err)
		}
	}

	e.mu.RLock()
	cached := len(e.cache)
	e.mu.RUnlock()

	if cached != 1 {
		t.Errorf("cache has %d programs, want 1", cached)
	}
}
