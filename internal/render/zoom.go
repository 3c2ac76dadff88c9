package render

import "golang.org/x/image/draw"

// ZoomFactors are the selectable board scales, smallest first.
var ZoomFactors = []float64{0.30, 0.41, 0.50, 0.60, 0.68, 0.79, 0.90, 1.00, 1.09, 1.17, 1.3, 1.6, 2.0, 3.0}

// BaseZoomIndex selects scale 1.00.
const BaseZoomIndex = 7

// ClampZoom limits i to a valid zoom index.
func ClampZoom(i int) int {
	switch {
	case i < 0:
		return 0
	case i >= len(ZoomFactors):
		return len(ZoomFactors) - 1
	}
	return i
}

// Kernel picks the scaling filter for a zoom index. The two smallest
// zooms use the cheap averaging filter.
func Kernel(i int) draw.Interpolator {
	if i < 2 {
		return draw.ApproxBiLinear
	}
	return draw.CatmullRom
}

// FontSize is the label size used at a zoom index.
func FontSize(i int) float64 {
	switch {
	case i < 7:
		return 7
	case i < 8:
		return 10
	case i < 10:
		return 12
	case i < 11:
		return 14
	case i < 12:
		return 16
	case i < 13:
		return 18
	default:
		return 24
	}
}
