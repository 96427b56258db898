package frame

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Frame is a decoded image as a tight RGB24 buffer, row-major, top-down.
type Frame struct {
	Pix []byte
	W   int
	H   int
}

// Decode reads a png or jpeg file into an RGB24 frame.
func Decode(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fromImage(img), nil
}

// Probe returns the dimensions of an image without decoding the pixels.
func Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("probe %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Shrink downsamples by an integer factor with nearest sampling.
// A factor <= 1 returns the frame untouched.
func Shrink(f *Frame, factor int) *Frame {
	if factor <= 1 {
		return f
	}
	newW := f.W / factor
	newH := f.H / factor
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	out := &Frame{
		Pix: make([]byte, newW*newH*3),
		W:   newW,
		H:   newH,
	}
	for y := 0; y < newH; y++ {
		srcY := y * factor
		for x := 0; x < newW; x++ {
			srcX := x * factor
			src := (srcY*f.W + srcX) * 3
			dst := (y*newW + x) * 3
			out.Pix[dst+0] = f.Pix[src+0]
			out.Pix[dst+1] = f.Pix[src+1]
			out.Pix[dst+2] = f.Pix[src+2]
		}
	}
	return out
}

func fromImage(img image.Image) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Frame{
		Pix: make([]byte, w*h*3),
		W:   w,
		H:   h,
	}

	// fast paths for the decoders' native formats
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * w * 3
			for x := 0; x < w; x++ {
				out.Pix[di+0] = src.Pix[si+0]
				out.Pix[di+1] = src.Pix[si+1]
				out.Pix[di+2] = src.Pix[si+2]
				si += 4
				di += 3
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * w * 3
			for x := 0; x < w; x++ {
				out.Pix[di+0] = src.Pix[si+0]
				out.Pix[di+1] = src.Pix[si+1]
				out.Pix[di+2] = src.Pix[si+2]
				si += 4
				di += 3
			}
		}
	default:
		for y := 0; y < h; y++ {
			di := y * w * 3
			for x := 0; x < w; x++ {
				r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				out.Pix[di+0] = byte(r >> 8)
				out.Pix[di+1] = byte(g >> 8)
				out.Pix[di+2] = byte(bb >> 8)
				di += 3
			}
		}
	}
	return out
}
