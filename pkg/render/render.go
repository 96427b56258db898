package render

import (
	"github.com/1F47E/go-framelapse/pkg/frame"
	"github.com/1F47E/go-framelapse/pkg/view"
)

// Render resamples one decoded frame into a freshly allocated RGB24
// viewport buffer using nearest neighbor. Output pixels whose source
// coordinate falls outside the frame stay black. Pure and deterministic,
// safe to call from any number of goroutines sharing one transform.
func Render(f *frame.Frame, t view.Transform) []byte {
	buf := make([]byte, t.VpW*t.VpH*3)
	for outY := 0; outY < t.VpH; outY++ {
		for outX := 0; outX < t.VpW; outX++ {
			srcX, srcY := t.SourceAt(outX, outY, f.W, f.H)
			if srcX >= 0 && srcX < f.W && srcY >= 0 && srcY < f.H {
				src := (srcY*f.W + srcX) * 3
				dst := (outY*t.VpW + outX) * 3
				buf[dst+0] = f.Pix[src+0]
				buf[dst+1] = f.Pix[src+1]
				buf[dst+2] = f.Pix[src+2]
			}
		}
	}
	return buf
}

// Black returns an all-black viewport buffer, the stand-in for a frame
// whose source file failed to decode.
func Black(t view.Transform) []byte {
	return make([]byte, t.VpW*t.VpH*3)
}
