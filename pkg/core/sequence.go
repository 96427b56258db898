package core

import (
	"fmt"

	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/frame"
	"github.com/1F47E/go-framelapse/pkg/preview"
	"github.com/1F47E/go-framelapse/pkg/scan"
	"github.com/1F47E/go-framelapse/pkg/view"
)

// Sequence is a scanned image folder plus the probed facts every
// command needs before touching pixels: full resolution from the first
// file and the shrink factor a preview of it would use.
type Sequence struct {
	Dir     string
	Files   []scan.File
	SourceW int
	SourceH int
	Shrink  int
}

// OpenSequence scans a folder and probes the first file. The first
// file's dimensions stand for the whole sequence, same as the viewer
// assumes when it sizes its preview.
func OpenSequence(dir string, vpW, vpH int) (*Sequence, error) {
	files, err := scan.Scan(dir)
	if err != nil {
		return nil, err
	}

	w, h, err := frame.Probe(files[0].Path)
	shrink := cfg.FallbackShrink
	if err != nil {
		log.WithField("scope", "core").Warnf("probe %s: %v, assuming shrink %d", files[0].Path, err, shrink)
		w, h = 0, 0
	} else {
		shrink = preview.AutoShrink(w, h, vpW, vpH)
	}

	return &Sequence{
		Dir:     dir,
		Files:   files,
		SourceW: w,
		SourceH: h,
		Shrink:  shrink,
	}, nil
}

// IndexRange returns the lowest and highest frame index in the sequence.
func (s *Sequence) IndexRange() (int, int) {
	if len(s.Files) == 0 {
		return -1, -1
	}
	return s.Files[0].Index, s.Files[len(s.Files)-1].Index
}

// Snapshot captures a framed view of this sequence for export. Zoom and
// pan arrive in the units the view was framed in, displayed (preview)
// image pixels; the snapshot records the preview dimensions so the
// transform can scale the pan back up to full resolution. Zoom and pan
// are clamped the same way the interactive viewer clamps them.
func (s *Sequence) Snapshot(zoom, panX, panY float64, vpW, vpH int) (view.Snapshot, error) {
	if s.SourceW < 1 || s.SourceH < 1 {
		return view.Snapshot{}, fmt.Errorf("sequence %s has no probed resolution", s.Dir)
	}

	dispW := s.SourceW / s.Shrink
	dispH := s.SourceH / s.Shrink
	zoom = view.ClampZoom(zoom, cfg.MinZoom, cfg.MaxZoom)
	scale := view.FitScale(dispW, dispH, vpW, vpH) * zoom

	return view.Snapshot{
		Zoom:       zoom,
		PanX:       view.ClampPan(panX, dispW, vpW, scale),
		PanY:       view.ClampPan(panY, dispH, vpH, scale),
		SourceW:    s.SourceW,
		SourceH:    s.SourceH,
		DisplayedW: dispW,
		DisplayedH: dispH,
		ViewportW:  vpW,
		ViewportH:  vpH,
	}, nil
}

// megabytes of raw RGB24 for n frames of w x h
func framesMB(n, w, h int) float64 {
	return float64(n) * float64(w*h*cfg.BytesPerPixel) / (1024 * 1024)
}
