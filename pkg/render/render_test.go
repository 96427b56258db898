package render

import (
	"reflect"
	"testing"

	"github.com/1F47E/go-framelapse/pkg/frame"
	"github.com/1F47E/go-framelapse/pkg/view"
)

func solidFrame(w, h int, r, g, b byte) *frame.Frame {
	f := &frame.Frame{W: w, H: h, Pix: make([]byte, w*h*3)}
	for i := 0; i < w*h; i++ {
		f.Pix[i*3+0] = r
		f.Pix[i*3+1] = g
		f.Pix[i*3+2] = b
	}
	return f
}

func snapshot(srcW, srcH, vpW, vpH int) view.Snapshot {
	return view.Snapshot{
		Zoom:    1.0,
		SourceW: srcW, SourceH: srcH,
		DisplayedW: srcW, DisplayedH: srcH,
		ViewportW: vpW, ViewportH: vpH,
	}
}

func TestRenderIdentity(t *testing.T) {
	// viewport == source, zoom 1, no pan: output equals the source bytes
	f := &frame.Frame{W: 4, H: 4, Pix: make([]byte, 4*4*3)}
	for i := range f.Pix {
		f.Pix[i] = byte(i)
	}
	tr := snapshot(4, 4, 4, 4).Transform()

	got := Render(f, tr)
	if !reflect.DeepEqual(got, f.Pix) {
		t.Errorf("got %v, want %v", got, f.Pix)
	}
}

func TestRenderSolid(t *testing.T) {
	f := solidFrame(8, 8, 255, 0, 0)
	tr := snapshot(8, 8, 8, 8).Transform()

	got := Render(f, tr)
	if len(got) != 8*8*3 {
		t.Fatalf("buffer size %d, want %d", len(got), 8*8*3)
	}
	for i := 0; i < 8*8; i++ {
		if got[i*3] != 255 || got[i*3+1] != 0 || got[i*3+2] != 0 {
			t.Fatalf("pixel %d = (%d,%d,%d), want (255,0,0)",
				i, got[i*3], got[i*3+1], got[i*3+2])
		}
	}
}

func TestRenderDeterminism(t *testing.T) {
	f := solidFrame(16, 16, 7, 77, 177)
	s := snapshot(16, 16, 10, 10)
	s.Zoom = 2.5
	s.PanX = 1.5
	s.PanY = -2.5
	tr := s.Transform()

	a := Render(f, tr)
	b := Render(f, tr)
	if !reflect.DeepEqual(a, b) {
		t.Error("two renders of the same input differ")
	}
}

func TestRenderPanPastEdgeIsBlack(t *testing.T) {
	// pan half the image width to the right: the right half of the view
	// samples past the source edge and must be black
	f := solidFrame(10, 10, 200, 100, 50)
	s := snapshot(10, 10, 10, 10)
	s.PanX = 5
	tr := s.Transform()

	got := Render(f, tr)
	for y := 0; y < 10; y++ {
		// left half still in range
		if got[(y*10+0)*3] != 200 {
			t.Fatalf("row %d: left edge not sampled from source", y)
		}
		// x=5 maps to source x=10, out of range
		for x := 5; x < 10; x++ {
			i := (y*10 + x) * 3
			if got[i] != 0 || got[i+1] != 0 || got[i+2] != 0 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want black",
					x, y, got[i], got[i+1], got[i+2])
			}
		}
	}
}

func TestRenderZoomCrops(t *testing.T) {
	// 2x2 quadrant colors, zoom 2 centers on the middle: all four quadrants
	// still visible but each output quadrant is a single source pixel blown up
	f := &frame.Frame{W: 2, H: 2, Pix: []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 0,
	}}
	s := snapshot(2, 2, 4, 4)
	s.Zoom = 2.0
	tr := s.Transform()

	got := Render(f, tr)
	// scale = fit(2)*zoom(2) = 4; outX 0 -> (0-2)/4 + 1 = 0.5 -> src 0
	// outX 3 -> (3-2)/4 + 1 = 1.25 -> src 1
	checks := []struct {
		x, y    int
		r, g, b byte
	}{
		{0, 0, 255, 0, 0},
		{3, 0, 0, 255, 0},
		{0, 3, 0, 0, 255},
		{3, 3, 255, 255, 0},
	}
	for _, c := range checks {
		i := (c.y*4 + c.x) * 3
		if got[i] != c.r || got[i+1] != c.g || got[i+2] != c.b {
			t.Errorf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
				c.x, c.y, got[i], got[i+1], got[i+2], c.r, c.g, c.b)
		}
	}
}

func TestBlack(t *testing.T) {
	tr := snapshot(4, 4, 4, 4).Transform()
	got := Black(tr)
	if len(got) != 4*4*3 {
		t.Fatalf("buffer size %d, want %d", len(got), 4*4*3)
	}
	for i, b := range got {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}
