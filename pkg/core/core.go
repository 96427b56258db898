package core

import (
	"context"

	"github.com/1F47E/go-framelapse/pkg/logger"
	"github.com/1F47E/go-framelapse/pkg/tui"
)

var log = logger.Log

type Core struct {
	ctx      context.Context
	eventsCh chan tui.Event
}

func NewCore(ctx context.Context, eventsCh chan tui.Event) *Core {
	return &Core{
		ctx:      ctx,
		eventsCh: eventsCh,
	}
}

// emit never blocks, a stalled or absent widget must not stall the writer
func (c *Core) emit(e tui.Event) {
	select {
	case c.eventsCh <- e:
	default:
	}
}
