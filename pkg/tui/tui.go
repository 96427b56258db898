package tui

import (
	"context"
)

// TUI pumps pipeline events into the widget until the job context ends.
type TUI struct {
	ctx      context.Context
	eventsCh chan Event
}

func New(eventsCh chan Event, ctx context.Context) *TUI {
	return &TUI{ctx, eventsCh}
}

func (t *TUI) Run() {
	widget := NewWidget()
	go widget.Run()

	for {
		select {
		case <-t.ctx.Done():
			return

		case event := <-t.eventsCh:
			switch event.eventType {
			case eventTypeSpin:
				widget.SetSpinner(event.text)
			case eventTypeBar:
				widget.SetProgress(event.text, event.percent)
			case eventTypeText:
				widget.SetText(event.text)
			}
		}
	}
}
