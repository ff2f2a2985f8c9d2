package dsp

// Regression is the result of a least-squares line fit of a centroid time
// series, grounded on original_source/Regression.cc.
type Regression struct {
	Slope       float64
	YIntercept  float64
	MinCentroid float64
	MaxCentroid float64
}

// Fit computes the least-squares slope/y-intercept of y against its index,
// along with the observed min/max; used to correct for transmitter drift
// and to place the tokenisation baseline (spec.md section 4.6).
func Fit(y []float64) Regression {
	n := float64(len(y))
	if n == 0 {
		return Regression{}
	}
	var sumX, sumY, sumXY, sumXX float64
	minC, maxC := y[0], y[0]
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
		if v < minC {
			minC = v
		}
		if v > maxC {
			maxC = v
		}
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Regression{YIntercept: sumY / n, MinCentroid: minC, MaxCentroid: maxC}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Regression{Slope: slope, YIntercept: intercept, MinCentroid: minC, MaxCentroid: maxC}
}
