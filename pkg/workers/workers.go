package workers

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/1F47E/go-framelapse/pkg/frame"
	"github.com/1F47E/go-framelapse/pkg/logger"
	"github.com/1F47E/go-framelapse/pkg/queue"
	"github.com/1F47E/go-framelapse/pkg/render"
	"github.com/1F47E/go-framelapse/pkg/view"
)

var log = logger.Log

// Renderer is one member of the export worker pool. Workers are
// symmetric: each one claims the next unrendered frame index off a
// shared counter, decodes the source file, resamples it into the
// viewport and hands the buffer to the queue. Completion order is
// whatever it is, ordering happens at the writer.
type Renderer struct {
	ctx      context.Context
	id       int
	files    []string
	tr       view.Transform
	q        *queue.Queue
	next     *atomic.Int64
	failures *atomic.Int64
}

func NewRenderer(ctx context.Context, id int, files []string, tr view.Transform, q *queue.Queue, next, failures *atomic.Int64) *Renderer {
	return &Renderer{
		ctx:      ctx,
		id:       id,
		files:    files,
		tr:       tr,
		q:        q,
		next:     next,
		failures: failures,
	}
}

func (r *Renderer) Run() {
	name := fmt.Sprintf("Renderer #%d", r.id)
	log.Debugf("%s started", name)
	defer log.Debugf("%s finished", name)

	total := int64(len(r.files))
	for {
		if r.ctx.Err() != nil {
			return
		}
		idx := r.next.Add(1) - 1
		if idx >= total {
			return
		}

		// a frame that fails to decode still ships as all black,
		// the writer must never stall on a single bad file
		var buf []byte
		f, err := frame.Decode(r.files[idx])
		if err != nil {
			log.Warnf("%s frame %d: %v", name, idx, err)
			r.failures.Add(1)
			buf = render.Black(r.tr)
		} else {
			buf = render.Render(f, r.tr)
		}

		if !r.q.Put(int(idx), buf) {
			return
		}
	}
}
