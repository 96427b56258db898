package core

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/1F47E/go-framelapse/pkg/job"
	"github.com/1F47E/go-framelapse/pkg/tui"
	"github.com/1F47E/go-framelapse/pkg/view"
)

const testDim = 8 // source and viewport edge for pipeline tests

// memSink records every frame handed to it, in arrival order.
type memSink struct {
	frames  [][]byte
	onWrite func(n int) // called with the running frame count
	failAt  int         // fail the write at this frame count, 0 = never
}

func (s *memSink) WriteFrame(buf []byte) error {
	s.frames = append(s.frames, buf)
	if s.failAt > 0 && len(s.frames) == s.failAt {
		return fmt.Errorf("sink full")
	}
	if s.onWrite != nil {
		s.onWrite(len(s.frames))
	}
	return nil
}

func (s *memSink) Close() error { return nil }

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, testDim, testDim))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// identity framing: viewport equals source, no zoom, no pan
func testSnapshot() view.Snapshot {
	return view.Snapshot{
		Zoom:       1.0,
		SourceW:    testDim,
		SourceH:    testDim,
		DisplayedW: testDim,
		DisplayedH: testDim,
		ViewportW:  testDim,
		ViewportH:  testDim,
	}
}

func testRequest(files []string, workers int) job.Request {
	req := job.New(files, "out.mp4", testSnapshot())
	req.SetWorkers(workers)
	return req
}

func newTestCore(ctx context.Context) *Core {
	return NewCore(ctx, make(chan tui.Event, 1))
}

func solidColor(buf []byte) (color.NRGBA, bool) {
	c := color.NRGBA{R: buf[0], G: buf[1], B: buf[2]}
	for i := 0; i < len(buf); i += 3 {
		if buf[i] != c.R || buf[i+1] != c.G || buf[i+2] != c.B {
			return c, false
		}
	}
	return c, true
}

// Every frame index arrives at the sink exactly once, in order, no
// matter how the workers interleave. The red channel carries the index
// so a swap cannot hide.
func TestRunWritesInOrder(t *testing.T) {
	dir := t.TempDir()
	const total = 60
	files := make([]string, total)
	for i := 0; i < total; i++ {
		files[i] = filepath.Join(dir, fmt.Sprintf("frame_%d.png", i))
		writePNG(t, files[i], color.NRGBA{R: byte(i)})
	}

	c := newTestCore(context.Background())
	sink := &memSink{}
	res, err := c.run(testRequest(files, 7), sink)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusCompleted {
		t.Fatalf("status = %s, want completed", res.Status)
	}
	if res.Written != total || len(sink.frames) != total {
		t.Fatalf("written = %d, sink got %d, want %d", res.Written, len(sink.frames), total)
	}
	for i, buf := range sink.frames {
		if len(buf) != testDim*testDim*3 {
			t.Fatalf("frame %d: %d bytes, want %d", i, len(buf), testDim*testDim*3)
		}
		if buf[0] != byte(i) {
			t.Errorf("position %d holds frame %d", i, buf[0])
		}
	}
}

// Three solid colors in, three solid raw frames out, same order.
func TestRunEndToEndRGB(t *testing.T) {
	dir := t.TempDir()
	colors := []color.NRGBA{
		{R: 255}, {G: 255}, {B: 255},
	}
	files := make([]string, len(colors))
	for i, col := range colors {
		files[i] = filepath.Join(dir, fmt.Sprintf("frame_%d.png", i))
		writePNG(t, files[i], col)
	}

	c := newTestCore(context.Background())
	sink := &memSink{}
	res, err := c.run(testRequest(files, 2), sink)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusCompleted || res.Written != 3 {
		t.Fatalf("status %s, written %d", res.Status, res.Written)
	}
	for i, buf := range sink.frames {
		got, solid := solidColor(buf)
		if !solid {
			t.Fatalf("frame %d is not a solid color", i)
		}
		want := colors[i]
		if got.R != want.R || got.G != want.G || got.B != want.B {
			t.Errorf("frame %d = %v, want %v", i, got, want)
		}
	}
}

// An unreadable file becomes one black frame, not a dead job.
func TestRunDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	const total, bad = 5, 2
	files := make([]string, total)
	for i := 0; i < total; i++ {
		files[i] = filepath.Join(dir, fmt.Sprintf("frame_%d.png", i))
		writePNG(t, files[i], color.NRGBA{R: 200, G: byte(i)})
	}
	if err := os.WriteFile(files[bad], []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCore(context.Background())
	sink := &memSink{}
	res, err := c.run(testRequest(files, 3), sink)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusCompleted || res.Written != total {
		t.Fatalf("status %s, written %d, want completed %d", res.Status, res.Written, total)
	}
	if res.Failures != 1 {
		t.Errorf("failures = %d, want 1", res.Failures)
	}
	for i, buf := range sink.frames {
		got, solid := solidColor(buf)
		if !solid {
			t.Fatalf("frame %d is not solid", i)
		}
		if i == bad {
			if got.R != 0 || got.G != 0 || got.B != 0 {
				t.Errorf("bad frame = %v, want black", got)
			}
		} else if got.R != 200 || got.G != byte(i) {
			t.Errorf("frame %d = %v", i, got)
		}
	}
}

// Cancelling mid-run stops the writer short of the full count and every
// goroutine is joined before run returns.
func TestRunCancellation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frame_0.png")
	writePNG(t, src, color.NRGBA{R: 9})

	const total, cancelAt = 1000, 50
	files := make([]string, total)
	for i := range files {
		files[i] = src
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newTestCore(ctx)
	sink := &memSink{
		onWrite: func(n int) {
			if n == cancelAt {
				cancel()
			}
		},
	}
	res, err := c.run(testRequest(files, 8), sink)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", res.Status)
	}
	if res.Written < cancelAt || res.Written >= total {
		t.Errorf("written = %d, want in [%d, %d)", res.Written, cancelAt, total)
	}
}

// A sink write error fails the job instead of wedging the workers.
func TestRunSinkWriteError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frame_0.png")
	writePNG(t, src, color.NRGBA{G: 77})

	files := make([]string, 20)
	for i := range files {
		files[i] = src
	}

	c := newTestCore(context.Background())
	sink := &memSink{failAt: 4}
	res, err := c.run(testRequest(files, 4), sink)
	if err == nil {
		t.Fatal("expected write error")
	}
	if res.Status != job.StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	if res.Written >= len(files) {
		t.Errorf("written = %d after failed sink", res.Written)
	}
}

// Export with a broken ffmpeg path fails before any frame is rendered.
func TestExportSinkUnavailable(t *testing.T) {
	t.Setenv("FRAMELAPSE_FFMPEG", "/nope/ffmpeg")
	dir := t.TempDir()
	src := filepath.Join(dir, "frame_0.png")
	writePNG(t, src, color.NRGBA{B: 3})

	c := newTestCore(context.Background())
	req := testRequest([]string{src}, 1)
	res, err := c.Export(req)
	if err == nil {
		t.Fatal("expected sink error")
	}
	if res.Status != job.StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	if res.Written != 0 {
		t.Errorf("written = %d, want 0", res.Written)
	}
}

func TestExportRejectsBadRequest(t *testing.T) {
	c := newTestCore(context.Background())
	req := testRequest(nil, 1)
	if _, err := c.Export(req); err == nil {
		t.Fatal("expected validation error for empty file list")
	}
}

func TestRunEmptySequence(t *testing.T) {
	c := newTestCore(context.Background())
	sink := &memSink{}
	req := testRequest(nil, 2)
	res, err := c.run(req, sink)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusCompleted || res.Written != 0 {
		t.Fatalf("status %s, written %d", res.Status, res.Written)
	}
}
