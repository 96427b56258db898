package encoder

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	cfg "github.com/1F47E/go-framelapse/pkg/config"
	"github.com/1F47E/go-framelapse/pkg/logger"
)

// FFmpeg streams raw RGB24 frames to an ffmpeg process encoding
// H.264 into an MP4 container. One frame is exactly width*height*3
// bytes on stdin, no framing in between; closing stdin finalizes the
// file. Only the sequential writer talks to it.
type FFmpeg struct {
	out     string
	width   int
	height  int
	fps     int
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  bytes.Buffer
	started bool
}

func New(out string, width, height, fps int) *FFmpeg {
	return &FFmpeg{
		out:    out,
		width:  width,
		height: height,
		fps:    fps,
	}
}

// Start resolves the ffmpeg binary and launches it. Failing here fails
// the whole job before any frame is rendered.
func (f *FFmpeg) Start() error {
	log := logger.Log.WithField("scope", "encoder")

	bin := cfg.FFmpegBinary
	if env := os.Getenv(cfg.EnvFFmpeg); env != "" {
		bin = env
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("ffmpeg not found (%s): %w", bin, err)
	}

	args := f.args()
	log.Debugf("running: %s %s", path, strings.Join(args, " "))

	cmd := exec.Command(path, args...)
	cmd.Stderr = &f.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}
	f.cmd = cmd
	f.stdin = stdin
	f.started = true
	return nil
}

// WriteFrame pushes one raw frame down the pipe.
func (f *FFmpeg) WriteFrame(buf []byte) error {
	if _, err := f.stdin.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w%s", err, f.stderrTail())
	}
	return nil
}

// Close signals end of input and waits for ffmpeg to finish the file.
// Safe to call after a failed Start and on the cancellation path, where
// the partial file is finalized rather than rolled back.
func (f *FFmpeg) Close() error {
	if !f.started {
		return nil
	}
	if err := f.stdin.Close(); err != nil {
		_ = f.cmd.Wait()
		return fmt.Errorf("close ffmpeg stdin: %w", err)
	}
	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w%s", err, f.stderrTail())
	}
	return nil
}

func (f *FFmpeg) args() []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", f.width, f.height),
		"-framerate", strconv.Itoa(f.fps),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", strconv.Itoa(cfg.FFmpegCRF),
		f.out,
	}
}

func (f *FFmpeg) stderrTail() string {
	s := strings.TrimSpace(f.stderr.String())
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	return " | " + strings.TrimSpace(lines[len(lines)-1])
}
