package subdiv

import (
	"math"
	"sync"
)

// Transcendental weights, computed once per valence and shared process-wide.
var (
	dooSabinCache sync.Map // int -> []float64
	sqrt3Cache    sync.Map // int -> float64
)

// dooSabinWeights returns the n corner weights, index 0 being the corner's
// own vertex. The slice is shared and must not be modified.
func dooSabinWeights(n int) []float64 {
	if w, ok := dooSabinCache.Load(n); ok {
		return w.([]float64)
	}
	var w []float64
	switch n {
	case 3:
		w = []float64{2.0 / 3, 1.0 / 6, 1.0 / 6}
	case 4:
		w = []float64{9.0 / 16, 3.0 / 16, 1.0 / 16, 3.0 / 16}
	default:
		w = make([]float64, n)
		fn := float64(n)
		w[0] = (fn + 5) / (4 * fn)
		for i := 1; i < n; i++ {
			w[i] = (3 + 2*math.Cos(2*math.Pi*float64(i)/fn)) / (4 * fn)
		}
	}
	actual, _ := dooSabinCache.LoadOrStore(n, w)
	return actual.([]float64)
}

// sqrt3Alpha returns (4 - 2cos(2π/n)) / 9.
func sqrt3Alpha(n int) float64 {
	if a, ok := sqrt3Cache.Load(n); ok {
		return a.(float64)
	}
	a := (4 - 2*math.Cos(2*math.Pi/float64(n))) / 9
	if n == 6 {
		a = 1.0 / 3
	}
	actual, _ := sqrt3Cache.LoadOrStore(n, a)
	return actual.(float64)
}

// loopBeta returns Warren's vertex weight for valence n.
func loopBeta(n int) float64 {
	if n == 3 {
		return 3.0 / 16
	}
	return 3 / (8 * float64(n))
}
