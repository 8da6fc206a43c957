package constraint

import "math"

// ScoreRange is the fixed [Min, Max] range a constraint's raw score lies in.
type ScoreRange struct {
	Min float64
	Max float64
}

// Normalize rescales a raw score to [0, 1] as (raw - Min) / (Max - Min).
//
// Results outside [0, 1] are clamped. A degenerate range (Max <= Min) and a NaN
// raw score both normalize to 0.
//
// Parameters:
//   - raw: Raw score produced by the constraint
//
// Returns:
//   - float64: Normalized score in [0, 1]
func (r ScoreRange) Normalize(raw float64) float64 {
	if r.Max <= r.Min || math.IsNaN(raw) {
		return 0
	}

	normalized := (raw - r.Min) / (r.Max - r.Min)

	return math.Max(0, math.Min(1, normalized))
}

// Clamp limits a raw score to the range.
func (r ScoreRange) Clamp(raw float64) float64 {
	if math.IsNaN(raw) {
		return r.Min
	}

	return math.Max(r.Min, math.Min(r.Max, raw))
}
