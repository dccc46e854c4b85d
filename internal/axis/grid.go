package axis

import (
	"fmt"
	"sort"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Calibrated maps sample indices 0..n-1 to physical values offset+slope*i.
func Calibrated(n int, offset, slope float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// Interpolate evaluates the piecewise-linear function through (xp, fp) at
// each x. xp must be monotonic (increasing or decreasing); x outside its range
// takes the nearest end value.
func Interpolate(xp, fp, x []float64) ([]float64, error) {
	if len(xp) != len(fp) {
		return nil, fmt.Errorf("%w: %d abscissae, %d ordinates", ErrInvalidValue, len(xp), len(fp))
	}
	if len(xp) == 0 {
		return nil, fmt.Errorf("%w: no points to interpolate", ErrInvalidValue)
	}

	if len(xp) > 1 && xp[0] > xp[len(xp)-1] {
		xp = reversed(xp)
		fp = reversed(fp)
	}

	out := make([]float64, len(x))
	last := len(xp) - 1
	for i, v := range x {
		switch {
		case v <= xp[0]:
			out[i] = fp[0]
		case v >= xp[last]:
			out[i] = fp[last]
		default:
			j := sort.SearchFloat64s(xp, v)
			if xp[j] == v {
				out[i] = fp[j]
				continue
			}
			x0, x1 := xp[j-1], xp[j]
			t := (v - x0) / (x1 - x0)
			out[i] = fp[j-1] + t*(fp[j]-fp[j-1])
		}
	}
	return out, nil
}

// Window keeps the samples whose axis value lies strictly between lo and hi.
func Window(values, data []float64, lo, hi float64) ([]float64, []float64, error) {
	if len(values) != len(data) {
		return nil, nil, fmt.Errorf("%w: axis has %d values, data %d", ErrInvalidValue, len(values), len(data))
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	keptAxis := make([]float64, 0, len(values))
	keptData := make([]float64, 0, len(data))
	for i, v := range values {
		if v > lo && v < hi {
			keptAxis = append(keptAxis, v)
			keptData = append(keptData, data[i])
		}
	}
	return keptAxis, keptData, nil
}

func reversed(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
