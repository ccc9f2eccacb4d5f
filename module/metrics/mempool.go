package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
)

type MempoolCollector struct {
	entries *prometheus.GaugeVec
}

var _ module.MempoolMetrics = (*MempoolCollector)(nil)

func NewMempoolCollector(registerer prometheus.Registerer, nodeID flow.Identifier) *MempoolCollector {
	factory := promauto.With(registerer)
	return &MempoolCollector{
		entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespaceStreamlet,
			Subsystem:   subsystemMempool,
			Name:        "entries_total",
			Help:        "the number of entries in the mempool",
			ConstLabels: prometheus.Labels{LabelNodeID: nodeID.String()},
		}, []string{LabelResource}),
	}
}

func (mc *MempoolCollector) MempoolEntries(resource string, entries uint) {
	mc.entries.WithLabelValues(resource).Set(float64(entries))
}
