package events

import "github.com/atomicstack/tmuxito/internal/logging"

type PreviewTracer struct{}

var Preview = PreviewTracer{}

func (PreviewTracer) Request(target string, seq uint64) {
	logging.Trace("preview.request", map[string]interface{}{"target": target, "seq": seq})
}

func (PreviewTracer) Applied(target string, seq uint64, lines int) {
	logging.Trace("preview.applied", map[string]interface{}{"target": target, "seq": seq, "lines": lines})
}

func (PreviewTracer) Stale(target string, seq uint64) {
	logging.Trace("preview.stale", map[string]interface{}{"target": target, "seq": seq})
}

func (PreviewTracer) Cleared(target string) {
	logging.Trace("preview.cleared", map[string]interface{}{"target": target})
}

func (PreviewTracer) Failed(target string, err error) {
	if err == nil {
		return
	}
	logging.Trace("preview.failed", map[string]interface{}{"target": target, "error": err.Error()})
}
