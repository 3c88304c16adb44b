package array

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

type Geometry string

const (
	GeometryFlower Geometry = "flower"
	GeometryHex    Geometry = "hex"
	GeometrySquare Geometry = "square"
)

// Geometries lists the supported packing geometries.
var Geometries = []Geometry{GeometryFlower, GeometryHex, GeometrySquare}

func (g Geometry) Valid() bool {
	for _, v := range Geometries {
		if g == v {
			return true
		}
	}
	return false
}

// Offset is a focal-plane position relative to the array center.
type Offset struct {
	X, Y float64
}

// goldenAngle is pi*(3-sqrt(5)) radians.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Offsets lays out n points for the given geometry. The flower pattern spans a
// maximum pairwise distance of fieldOfView, the hex pattern a maximum radius of
// fieldOfView/2, and the square grid covers [-fov, fov]/(2*sqrt2) per axis.
// Generation order is deterministic; callers index detectors by it.
func Offsets(geometry Geometry, fieldOfView float64, n int) ([]Offset, error) {
	if !geometry.Valid() {
		return nil, fmt.Errorf("%w %q: valid geometries are %v", ErrInvalidGeometry, geometry, Geometries)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	if n == 1 {
		return []Offset{{}}, nil
	}

	switch geometry {
	case GeometryFlower:
		return flowerOffsets(fieldOfView, n), nil
	case GeometryHex:
		return hexOffsets(fieldOfView, n), nil
	default:
		return squareOffsets(fieldOfView, n), nil
	}
}

func flowerOffsets(fov float64, n int) []Offset {
	zs := make([]complex128, n)
	for i := range zs {
		r := math.Sqrt(float64(i) / float64(n-1) * 2)
		zs[i] = cmplx.Rect(r, goldenAngle*float64(i))
	}

	maxDist := 0.0
	for i := range zs {
		for j := i + 1; j < n; j++ {
			if d := cmplx.Abs(zs[i] - zs[j]); d > maxDist {
				maxDist = d
			}
		}
	}

	return scaleComplex(zs, fov, maxDist)
}

func hexOffsets(fov float64, n int) []Offset {
	var angles [6]float64
	for m := range angles {
		angles[m] = 2*math.Pi*float64(m+1)/6 + math.Pi/2
	}

	zs := []complex128{0}
	for layer := 1; len(zs) < n; layer++ {
		for _, a := range angles {
			corner := cmplx.Rect(float64(layer), a)
			step := cmplx.Rect(1, a+2*math.Pi/3)
			for j := 0; j < layer; j++ {
				zs = append(zs, corner+complex(float64(j), 0)*step)
			}
		}
	}

	var mean complex128
	for _, z := range zs {
		mean += z
	}
	mean /= complex(float64(len(zs)), 0)

	radii := make([]float64, len(zs))
	for i := range zs {
		zs[i] -= mean
		radii[i] = cmplx.Abs(zs[i])
	}

	return scaleComplex(zs[:n], fov/2, floats.Max(radii))
}

func squareOffsets(fov float64, n int) []Offset {
	side := int(math.Ceil(math.Sqrt(float64(n))))
	axis := make([]float64, side)
	floats.Span(axis, -fov, fov)
	floats.Scale(1/(2*math.Sqrt2), axis)

	out := make([]Offset, 0, n)
	for row := 0; row < side && len(out) < n; row++ {
		for col := 0; col < side && len(out) < n; col++ {
			out = append(out, Offset{X: axis[col], Y: axis[row]})
		}
	}
	return out
}

// scaleComplex maps zs so that a distance of ref becomes target. A zero ref
// leaves every point at the origin.
func scaleComplex(zs []complex128, target, ref float64) []Offset {
	scale := 0.0
	if ref > 0 {
		scale = target / ref
	}
	out := make([]Offset, len(zs))
	for i, z := range zs {
		out[i] = Offset{X: real(z) * scale, Y: imag(z) * scale}
	}
	return out
}
