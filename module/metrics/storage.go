package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/streamlet/model/flow"
	"github.com/onflow/streamlet/module"
)

// StorageCollector reports badger persistence and read-cache activity.
type StorageCollector struct {
	retries      prometheus.Counter
	queueLength  prometheus.Gauge
	failedWrites prometheus.Counter
	entries      *prometheus.GaugeVec
	hits         *prometheus.CounterVec
	notFounds    *prometheus.CounterVec
	misses       *prometheus.CounterVec
}

var _ module.StorageMetrics = (*StorageCollector)(nil)
var _ module.CacheMetrics = (*StorageCollector)(nil)

func NewStorageCollector(registerer prometheus.Registerer, nodeID flow.Identifier) *StorageCollector {
	factory := promauto.With(registerer)
	labels := prometheus.Labels{LabelNodeID: nodeID.String()}

	return &StorageCollector{
		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemBadger,
			Name:        "retry_on_conflict_total",
			Help:        "the number of badger transactions retried after a conflict",
			ConstLabels: labels,
		}),
		queueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemBadger,
			Name:        "write_queue_length",
			Help:        "the number of writes waiting to be persisted",
			ConstLabels: labels,
		}),
		failedWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemBadger,
			Name:        "failed_writes_total",
			Help:        "the number of writes that failed after all retries",
			ConstLabels: labels,
		}),
		entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemCache,
			Name:        "entries_total",
			Help:        "the number of entries in the storage cache",
			ConstLabels: labels,
		}, []string{LabelResource}),
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemCache,
			Name:        "hits_total",
			Help:        "the number of hits for the storage cache",
			ConstLabels: labels,
		}, []string{LabelResource}),
		notFounds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemCache,
			Name:        "notfound_total",
			Help:        "the number of times the queried item was not found in either cache or database",
			ConstLabels: labels,
		}, []string{LabelResource}),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespaceStorage,
			Subsystem:   subsystemCache,
			Name:        "misses_total",
			Help:        "the number of times the queried item was not in the cache but found in the database",
			ConstLabels: labels,
		}, []string{LabelResource}),
	}
}

func (sc *StorageCollector) RetryOnConflict() {
	sc.retries.Inc()
}

func (sc *StorageCollector) StorageQueueLength(length uint) {
	sc.queueLength.Set(float64(length))
}

func (sc *StorageCollector) StorageWriteFailed() {
	sc.failedWrites.Inc()
}

// CacheEntries records the size of the storage cache.
func (sc *StorageCollector) CacheEntries(resource string, entries uint) {
	sc.entries.WithLabelValues(resource).Set(float64(entries))
}

// CacheHit records the number of hits in the storage cache.
func (sc *StorageCollector) CacheHit(resource string) {
	sc.hits.WithLabelValues(resource).Inc()
}

// CacheNotFound records the number of times the queried item was not found in either cache
// or database.
func (sc *StorageCollector) CacheNotFound(resource string) {
	sc.notFounds.WithLabelValues(resource).Inc()
}

// CacheMiss records the number of times the queried item was not found in the cache but
// found in the database.
func (sc *StorageCollector) CacheMiss(resource string) {
	sc.misses.WithLabelValues(resource).Inc()
}
