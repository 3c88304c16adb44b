package export

import (
	"strings"
	"testing"

	"github.com/san-kum/telesim/internal/array"
)

func TestFocalPlaneSVG(t *testing.T) {
	dets, err := array.BuildDetectors(array.Bands{
		array.NewBand("f090", 3, 90, 30),
		array.NewBand("f150", 2, 150, 30),
	}, 1, array.GeometryHex, 0)
	if err != nil {
		t.Fatal(err)
	}

	svg := FocalPlaneSVG(dets, 400)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed document:\n%s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 5 {
		t.Errorf("got %d circles, want 5", n)
	}
	if n := strings.Count(svg, `fill="#00ccff"><title>`); n != 3 {
		t.Errorf("got %d f090 circles, want 3", n)
	}
	if !strings.Contains(svg, ">f150</text>") {
		t.Error("missing band legend")
	}
}

func TestTrackSVG(t *testing.T) {
	if TrackSVG([]float64{1}, []float64{1}, 100, 100, "#fff") != "" {
		t.Error("single point should render nothing")
	}

	svg := TrackSVG([]float64{0, 1, 2}, []float64{0, 1, 0}, 120, 60, "#00ff00")
	if !strings.Contains(svg, `d="M10.0,55.0 L60.0,5.0 L110.0,55.0"`) {
		t.Errorf("unexpected path:\n%s", svg)
	}
}
