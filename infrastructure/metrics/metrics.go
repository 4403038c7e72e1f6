// Package metrics exposes the prometheus collectors of the block pipeline
// and the virtual state.
package metrics

import (
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Block processing outcomes, used as the value of the result label
const (
	ResultAccepted = "accepted"
	ResultOrphaned = "orphaned"
	ResultRejected = "rejected"
)

var (
	blocksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghostdagd_blocks_processed_total",
		Help: "The number of blocks that went through the pipeline, by result.",
	}, []string{"result"})
	blockProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ghostdagd_block_processing_seconds",
		Help:    "Time spent validating and inserting a single block.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
	orphanCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ghostdagd_orphans",
		Help: "The number of blocks waiting for missing parents.",
	})
	orphansEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghostdagd_orphans_evicted_total",
		Help: "The number of orphans evicted before their parents arrived.",
	})
	virtualBlueScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ghostdagd_virtual_blue_score",
		Help: "The blue score of the virtual block.",
	})
	reorgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghostdagd_reorgs_total",
		Help: "The number of insertions that removed blocks from the selected chain.",
	})
	reorgDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ghostdagd_reorg_depth",
		Help:    "The number of selected chain blocks removed by a reorg.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

// RecordBlockProcessed counts a processed block under the given result
// and records how long it took
func RecordBlockProcessed(result string, duration time.Duration) {
	blocksProcessed.WithLabelValues(result).Inc()
	blockProcessingDuration.Observe(duration.Seconds())
}

// SetOrphanCount reports the current size of the orphan pool
func SetOrphanCount(count int) {
	orphanCount.Set(float64(count))
}

// RecordOrphanEviction counts an orphan dropped from a full pool
func RecordOrphanEviction() {
	orphansEvicted.Inc()
}

// SetVirtualBlueScore reports the virtual blue score
func SetVirtualBlueScore(blueScore uint64) {
	virtualBlueScore.Set(float64(blueScore))
}

// RecordChainChanges records a reorg if changes removed any chain block
func RecordChainChanges(changes *externalapi.SelectedChainPath) {
	if changes == nil || len(changes.Removed) == 0 {
		return
	}
	reorgs.Inc()
	reorgDepth.Observe(float64(len(changes.Removed)))
}
