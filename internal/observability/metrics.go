package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DedupeMetrics covers duplicate scans and merges. A nil *DedupeMetrics is
// valid and records nothing.
type DedupeMetrics struct {
	ScansTotal       *prometheus.CounterVec   // by status
	ScanDuration     prometheus.Histogram     // whole scan, replay included
	GroupsFound      *prometheus.GaugeVec     // by kind, last scan
	PendingGroups    prometheus.Gauge         // groups awaiting a decision
	MergesTotal      *prometheus.CounterVec   // by source, status
	MergeDuration    *prometheus.HistogramVec // by source
	ImageCarryTotal  *prometheus.CounterVec   // by status
	DecisionsTotal   *prometheus.CounterVec   // by action
	CatalogEntities  prometheus.Gauge
	collectorsByName map[string]prometheus.Collector
}

func NewDedupeMetrics(registry prometheus.Registerer) (*DedupeMetrics, error) {
	m := &DedupeMetrics{}
	m.initMetrics()
	for name, c := range m.collectorsByName {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register dedupe metric %s: %w", name, err)
		}
	}
	return m, nil
}

func (m *DedupeMetrics) initMetrics() {
	m.ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedupe_scans_total",
			Help: "Duplicate scans by outcome",
		},
		[]string{"status"}, // status: success, error, dry_run
	)
	m.ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dedupe_scan_duration_seconds",
			Help:    "Time spent reading the catalog, grouping and replaying approved merges",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
	m.GroupsFound = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dedupe_groups_found",
			Help: "Duplicate groups found by the last scan, before history filtering",
		},
		[]string{"kind"},
	)
	m.PendingGroups = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedupe_pending_groups",
			Help: "Duplicate groups awaiting an operator decision",
		},
	)
	m.MergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedupe_merges_total",
			Help: "Merge executions by source and outcome",
		},
		[]string{"source", "status"}, // source: decide, manual, replay, reclassify
	)
	m.MergeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dedupe_merge_duration_seconds",
			Help:    "Time taken by one merge execution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)
	m.ImageCarryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedupe_image_carry_total",
			Help: "Image carry-over attempts by outcome",
		},
		[]string{"status"},
	)
	m.DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedupe_decisions_total",
			Help: "Operator decisions recorded in merge history",
		},
		[]string{"action"},
	)
	m.CatalogEntities = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedupe_catalog_entities",
			Help: "Mergeable entities seen by the last catalog read",
		},
	)

	m.collectorsByName = map[string]prometheus.Collector{
		"scans_total":       m.ScansTotal,
		"scan_duration":     m.ScanDuration,
		"groups_found":      m.GroupsFound,
		"pending_groups":    m.PendingGroups,
		"merges_total":      m.MergesTotal,
		"merge_duration":    m.MergeDuration,
		"image_carry_total": m.ImageCarryTotal,
		"decisions_total":   m.DecisionsTotal,
		"catalog_entities":  m.CatalogEntities,
	}
}

func (m *DedupeMetrics) ObserveScan(status string, d time.Duration, exact, similar, entities int) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(status).Inc()
	m.ScanDuration.Observe(d.Seconds())
	if status == "error" {
		return
	}
	m.GroupsFound.WithLabelValues("exact").Set(float64(exact))
	m.GroupsFound.WithLabelValues("similar").Set(float64(similar))
	m.CatalogEntities.Set(float64(entities))
}

func (m *DedupeMetrics) ObserveMerge(source string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.MergesTotal.WithLabelValues(source, status).Inc()
	m.MergeDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *DedupeMetrics) ObserveImageCarry(status string) {
	if m == nil || status == "" {
		return
	}
	m.ImageCarryTotal.WithLabelValues(status).Inc()
}

func (m *DedupeMetrics) ObserveDecision(action string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(action).Inc()
}

func (m *DedupeMetrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.PendingGroups.Set(float64(n))
}
