// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"github.com/prometheus/client_golang/prometheus"
)

// hostEventTotal counts NvmeConnect/NvmeDisconnect/NvmeKeepAliveTimeout
// events by action, the way an external management layer would want to
// expose them without having to subscribe to the event bus itself.
var hostEventTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "nvmf",
		Name:      "host_event_total",
		Help:      "Count of NVMe-oF host connect/disconnect/keep-alive-timeout events, by action.",
	},
	[]string{"action"},
)

// ActiveSubsystems reports the number of subsystems currently registered
// with a control plane's Registry. It is intended to be registered once
// per process, e.g. `prometheus.MustRegister(nvmf.ActiveSubsystems(cp))`.
func ActiveSubsystems(cp *ControlPlane) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "nvmf",
		Name:      "active_subsystems",
		Help:      "Number of NVMe-oF subsystems currently registered.",
	}, func() float64 {
		return float64(cp.Registry.Len())
	})
}

func recordEventMetric(action EventAction, _ EventMeta) {
	hostEventTotal.WithLabelValues(action.String()).Inc()
}

func init() {
	prometheus.MustRegister(hostEventTotal)
}
