package batch

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// A settings file holds one export job per line:
//
//	output.mp4|zoom|panX|panY|startFrame|endFrame|fps
//
// Pan is in displayed image units, the same units the view was framed
// in. Lines starting with # and blank lines are skipped.

const fields = 7

// Line is one parsed batch job.
type Line struct {
	Output string
	Zoom   float64
	PanX   float64
	PanY   float64
	Start  int
	End    int
	FPS    int
}

// Format renders the line back into the file format. Floats are written
// with six decimals so round-tripping a framed view is lossless enough
// for pixel work.
func (l Line) Format() string {
	return fmt.Sprintf("%s|%.6f|%.6f|%.6f|%d|%d|%d",
		l.Output, l.Zoom, l.PanX, l.PanY, l.Start, l.End, l.FPS)
}

// Parse splits one settings line into a Line.
func Parse(s string) (Line, error) {
	parts := strings.Split(s, "|")
	if len(parts) != fields {
		return Line{}, fmt.Errorf("want %d fields, got %d", fields, len(parts))
	}

	var l Line
	var err error
	l.Output = strings.TrimSpace(parts[0])
	if l.Output == "" {
		return Line{}, fmt.Errorf("empty output path")
	}
	if l.Zoom, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return Line{}, fmt.Errorf("zoom: %w", err)
	}
	if l.PanX, err = strconv.ParseFloat(parts[2], 64); err != nil {
		return Line{}, fmt.Errorf("panX: %w", err)
	}
	if l.PanY, err = strconv.ParseFloat(parts[3], 64); err != nil {
		return Line{}, fmt.Errorf("panY: %w", err)
	}
	if l.Start, err = strconv.Atoi(strings.TrimSpace(parts[4])); err != nil {
		return Line{}, fmt.Errorf("startFrame: %w", err)
	}
	if l.End, err = strconv.Atoi(strings.TrimSpace(parts[5])); err != nil {
		return Line{}, fmt.Errorf("endFrame: %w", err)
	}
	if l.FPS, err = strconv.Atoi(strings.TrimSpace(parts[6])); err != nil {
		return Line{}, fmt.Errorf("fps: %w", err)
	}
	return l, nil
}

// ParseFile reads a whole settings file. A malformed line fails the
// parse with its line number, a batch should not silently skip jobs.
func ParseFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings %s: %w", path, err)
	}
	defer f.Close()

	var lines []Line
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		l, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, n, err)
		}
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	return lines, nil
}

// Append adds one line to a settings file, creating it if needed.
// Used by export --save-settings to bank the current framing for a
// later batch run.
func Append(path string, l Line) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open settings %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, l.Format()); err != nil {
		return fmt.Errorf("append settings %s: %w", path, err)
	}
	return nil
}
