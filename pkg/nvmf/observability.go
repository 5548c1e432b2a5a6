// SPDX-License-Identifier: Apache-2.0

package nvmf

// EventAction names the observability actions the control core emits.
type EventAction int

const (
	ActionNvmeConnect EventAction = iota
	ActionNvmeDisconnect
	ActionNvmeKeepAliveTimeout
)

func (a EventAction) String() string {
	switch a {
	case ActionNvmeConnect:
		return "NvmeConnect"
	case ActionNvmeDisconnect:
		return "NvmeDisconnect"
	case ActionNvmeKeepAliveTimeout:
		return "NvmeKeepAliveTimeout"
	default:
		return "Unknown"
	}
}

// Subscriber receives every event published on an EventBus.
type Subscriber func(action EventAction, meta EventMeta)

// EventBus is a minimal in-process stand-in for the management layer's
// event bus. A bus built by NewEventBus also drives the Prometheus
// counters in metrics.go through a pre-registered subscriber, so the
// control plane is observable even with no other subscriber attached; a
// zero-value EventBus records no metrics.
type EventBus struct {
	subscribers []Subscriber
}

// NewEventBus creates an EventBus with Prometheus metrics wired in as its
// first subscriber.
func NewEventBus() *EventBus {
	b := &EventBus{}
	b.Subscribe(recordEventMetric)
	return b
}

// Subscribe registers sub to receive every future published event.
func (b *EventBus) Subscribe(sub Subscriber) {
	b.subscribers = append(b.subscribers, sub)
}

// Publish fans action+meta out to every subscriber, in registration
// order.
func (b *EventBus) Publish(action EventAction, meta EventMeta) {
	for _, sub := range b.subscribers {
		sub(action, meta)
	}
}
