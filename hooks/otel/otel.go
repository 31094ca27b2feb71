// Package otelhooks exports memocache events as OpenTelemetry counters.
//
// Storage keys are never used as attributes; they are unbounded. Store
// errors carry the failed op and encode errors the value's type name.
package otelhooks

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/memocache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterPrefix = "memocache."

type Hooks struct {
	hits         metric.Int64Counter
	misses       metric.Int64Counter
	storeErrors  metric.Int64Counter
	encodeErrors metric.Int64Counter
	bustRefused  metric.Int64Counter
}

var _ memocache.Hooks = (*Hooks)(nil)

// New registers the counters on meter.
func New(meter metric.Meter) (*Hooks, error) {
	if meter == nil {
		return nil, fmt.Errorf("otelhooks: nil meter")
	}
	h := &Hooks{}
	defs := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&h.hits, "hits", "Cache reads that returned a value"},
		{&h.misses, "misses", "Cache reads that returned nothing usable"},
		{&h.storeErrors, "store_errors", "Store calls that failed and were contained"},
		{&h.encodeErrors, "encode_errors", "Values that could not be encoded"},
		{&h.bustRefused, "bust_refused", "Bust calls refused because no prefix is set"},
	}
	for _, d := range defs {
		c, err := meter.Int64Counter(meterPrefix+d.name, metric.WithDescription(d.desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("otelhooks: create %s counter: %w", d.name, err)
		}
		*d.target = c
	}
	return h, nil
}

// Hooks have no context; counters are recorded against Background.

func (h *Hooks) Hit(string)  { h.hits.Add(context.Background(), 1) }
func (h *Hooks) Miss(string) { h.misses.Add(context.Background(), 1) }

func (h *Hooks) StoreError(op, _ string, _ error) {
	h.storeErrors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("op", op)))
}

func (h *Hooks) EncodeError(_, typeName string, _ error) {
	h.encodeErrors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("type", typeName)))
}

func (h *Hooks) BustRefused() { h.bustRefused.Add(context.Background(), 1) }
