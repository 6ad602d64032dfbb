package events

import (
	"time"

	"github.com/atomicstack/tmuxito/internal/logging"
)

type NavTracer struct{}

type ListTracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	Nav     = NavTracer{}
	List    = ListTracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (NavTracer) Screen(from, to string) {
	logging.Trace("nav.screen", map[string]interface{}{"from": from, "to": to})
}

func (NavTracer) Status(level, text string) {
	logging.Trace("nav.status", map[string]interface{}{"level": level, "text": text})
}

func (NavTracer) Unavailable(err error) {
	if err == nil {
		return
	}
	logging.Trace("nav.unavailable", map[string]interface{}{"error": err.Error()})
}

func (NavTracer) Stale(kind string, seq, current uint64) {
	logging.Trace("nav.stale", map[string]interface{}{"kind": kind, "seq": seq, "current": current})
}

func (ListTracer) Loaded(kind string, count, skipped int) {
	logging.Trace("list.loaded", map[string]interface{}{"kind": kind, "count": count, "skipped": skipped})
}

func (ListTracer) Sort(key string) {
	logging.Trace("list.sort", map[string]interface{}{"key": key})
}

func (ListTracer) Cursor(screen string, cursor int) {
	logging.Trace("list.cursor", map[string]interface{}{"screen": screen, "cursor": cursor})
}

func (FilterTracer) Changed(screen, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"screen": screen, "filter": filter})
}

func (FilterTracer) Cleared(screen string) {
	logging.Trace("filter.clear", map[string]interface{}{"screen": screen})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string, elapsed time.Duration) {
	logging.Trace("command.result", map[string]interface{}{
		"id":      id,
		"label":   label,
		"msg":     msgType,
		"elapsed": elapsed.String(),
	})
}
