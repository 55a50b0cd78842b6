// Package metrics holds the Prometheus metrics of the draft scout.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "draft_scout"

	ResultMatched = "matched"
	ResultCreated = "created"
	ResultSkipped = "skipped"
)

// Metrics records what the controller does. A nil *Metrics records nothing.
type Metrics struct {
	boardImports          *prometheus.CounterVec
	importEntries         *prometheus.CounterVec
	mergePlayersRemoved   prometheus.Counter
	rankRecalculations    prometheus.Counter
	rankRecalculationTime prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		boardImports: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_imports_total",
			Help:      "Total number of rank boards imported, by source",
		}, []string{"source"}),
		importEntries: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_entries_total",
			Help:      "Total number of imported board entries, by how they were resolved",
		}, []string{"result"}),
		mergePlayersRemoved: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_players_removed_total",
			Help:      "Total number of duplicate players removed by merges",
		}),
		rankRecalculations: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_recalculations_total",
			Help:      "Total number of effective rank recalculations",
		}),
		rankRecalculationTime: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_recalculation_seconds",
			Help:      "Time spent recalculating effective ranks",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) BoardImported(source string, matched, created, skipped int) {
	if m == nil {
		return
	}
	m.boardImports.WithLabelValues(source).Inc()
	m.importEntries.WithLabelValues(ResultMatched).Add(float64(matched))
	m.importEntries.WithLabelValues(ResultCreated).Add(float64(created))
	m.importEntries.WithLabelValues(ResultSkipped).Add(float64(skipped))
}

func (m *Metrics) PlayersMerged(removed int) {
	if m == nil {
		return
	}
	m.mergePlayersRemoved.Add(float64(removed))
}

func (m *Metrics) RanksRecalculated(d time.Duration) {
	if m == nil {
		return
	}
	m.rankRecalculations.Inc()
	m.rankRecalculationTime.Observe(d.Seconds())
}
