package view

// Pure view math shared by the preview and the exporter.
// Pan is tracked in displayed (preview) image pixels and converted to
// full-resolution units only when a snapshot is turned into a transform.

// FitScale returns the scale that exactly fits a srcW x srcH image
// inside a vpW x vpH viewport without cropping.
func FitScale(srcW, srcH, vpW, vpH int) float64 {
	scaleX := float64(vpW) / float64(srcW)
	scaleY := float64(vpH) / float64(srcH)
	if scaleX < scaleY {
		return scaleX
	}
	return scaleY
}

// ClampZoom limits a zoom level to [min, max].
func ClampZoom(zoom, min, max float64) float64 {
	if zoom < min {
		return min
	}
	if zoom > max {
		return max
	}
	return zoom
}

// ClampPan limits a pan offset so the view cannot slide past the image edge.
// pan and the returned value are in displayed image units, imgDim is the
// displayed image dimension on that axis, vpDim the viewport dimension,
// scale the effective scale (fit * zoom).
func ClampPan(pan float64, imgDim, vpDim int, scale float64) float64 {
	maxPan := (float64(imgDim)*scale - float64(vpDim)) / (2.0 * scale)
	if maxPan < 0 {
		maxPan = 0
	}
	if pan > maxPan {
		return maxPan
	}
	if pan < -maxPan {
		return -maxPan
	}
	return pan
}

// Snapshot is the view state captured once when an export job starts.
// Workers and the writer only read it, so a live preview can keep moving
// without tearing the running export.
type Snapshot struct {
	Zoom float64

	// pan in displayed image units
	PanX float64
	PanY float64

	// full resolution source dimensions
	SourceW int
	SourceH int

	// dimensions of the (possibly shrunk) image the pan was recorded against
	DisplayedW int
	DisplayedH int

	// output frame dimensions
	ViewportW int
	ViewportH int
}

// Transform is the per-pixel inverse mapping derived from a Snapshot.
// Safe for concurrent use by any number of renderers.
type Transform struct {
	Scale   float64
	PanSrcX float64
	PanSrcY float64
	VpW     int
	VpH     int
}

// Transform converts the snapshot into the resampling transform.
// The pan is scaled from displayed to source units by the ratio of the
// two widths; a shrunk preview with shrink factor k gives a ratio of k.
func (s Snapshot) Transform() Transform {
	ratioX := 1.0
	ratioY := 1.0
	if s.DisplayedW > 0 {
		ratioX = float64(s.SourceW) / float64(s.DisplayedW)
	}
	if s.DisplayedH > 0 {
		ratioY = float64(s.SourceH) / float64(s.DisplayedH)
	}
	return Transform{
		Scale:   FitScale(s.SourceW, s.SourceH, s.ViewportW, s.ViewportH) * s.Zoom,
		PanSrcX: s.PanX * ratioX,
		PanSrcY: s.PanY * ratioY,
		VpW:     s.ViewportW,
		VpH:     s.ViewportH,
	}
}

// SourceAt maps an output pixel to a source pixel of a srcW x srcH frame.
// Coordinates are truncated toward zero and may fall outside the frame,
// the renderer decides what to do with those.
func (t Transform) SourceAt(outX, outY, srcW, srcH int) (int, int) {
	imgX := (float64(outX)-float64(t.VpW)/2.0)/t.Scale + float64(srcW)/2.0 + t.PanSrcX
	imgY := (float64(outY)-float64(t.VpH)/2.0)/t.Scale + float64(srcH)/2.0 + t.PanSrcY
	return int(imgX), int(imgY)
}
