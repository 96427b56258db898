package progress

import (
	"fmt"
	"time"

	"github.com/1F47E/go-framelapse/pkg/job"
)

// Tracker computes throughput and ETA for the sequential writer.
// All rates are measured against the job start, not a sliding window,
// matching what the progress line promises.
type Tracker struct {
	total int
	start time.Time
}

func NewTracker(total int) *Tracker {
	return &Tracker{
		total: total,
		start: time.Now(),
	}
}

func (t *Tracker) Snapshot(written, failures int) job.Progress {
	p := job.Progress{
		Written:  written,
		Total:    t.total,
		Failures: failures,
		Elapsed:  time.Since(t.start),
	}
	sec := p.Elapsed.Seconds()
	if written > 0 && sec > 0 {
		p.FPS = float64(written) / sec
		remaining := float64(t.total-written) / p.FPS
		p.ETA = time.Duration(remaining * float64(time.Second))
	}
	return p
}

func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.start)
}

// FormatLine renders one progress report, e.g.
// "Frame 100/500 (20%) - 12.3 fps - ETA: 1m 5s"
func FormatLine(p job.Progress) string {
	percent := 0
	if p.Total > 0 {
		percent = 100 * p.Written / p.Total
	}
	eta := int(p.ETA.Seconds())
	return fmt.Sprintf("Frame %d/%d (%d%%) - %.1f fps - ETA: %dm %ds",
		p.Written, p.Total, percent, p.FPS, eta/60, eta%60)
}

// FormatSummary renders the final line after the encoder is closed.
func FormatSummary(elapsed time.Duration) string {
	sec := int(elapsed.Seconds())
	return fmt.Sprintf("Export complete! Total time: %dm %ds", sec/60, sec%60)
}

// Ratio is the 0..1 completion used by the progress bar widget.
func Ratio(p job.Progress) float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Written) / float64(p.Total)
}
