package events

import "github.com/atomicstack/tmuxito/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) DrillIn(session string) {
	logging.Trace("window.drill-in", map[string]interface{}{"session": session})
}

func (WindowTracer) Back(session string) {
	logging.Trace("window.back", map[string]interface{}{"session": session})
}

func (WindowTracer) Attach(target string) {
	logging.Trace("window.attach", map[string]interface{}{"target": target})
}
