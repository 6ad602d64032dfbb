package events

import (
	"time"

	"github.com/atomicstack/tmuxito/internal/logging"
)

type GatewayTracer struct{}

type ParseTracer struct{}

var (
	Gateway = GatewayTracer{}
	Parse   = ParseTracer{}
)

func (GatewayTracer) Exec(op, target string, args []string) {
	logging.Trace("gateway.exec", map[string]interface{}{"op": op, "target": target, "args": args})
}

func (GatewayTracer) Success(op, target string, bytes int, elapsed time.Duration) {
	logging.Trace("gateway.success", map[string]interface{}{
		"op":      op,
		"target":  target,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	})
}

func (GatewayTracer) Failure(op, target string, err error, elapsed time.Duration) {
	payload := map[string]interface{}{"op": op, "target": target, "elapsed": elapsed.String()}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("gateway.failure", payload)
}

// Degraded records lines a listing skipped because they did not parse.
func (ParseTracer) Degraded(op string, skipped int) {
	logging.Trace("parse.degraded", map[string]interface{}{"op": op, "skipped": skipped})
}
