package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewDedupeMetrics(reg)
	require.NoError(t, err)

	m.ObserveScan("success", 120*time.Millisecond, 3, 2, 400)
	m.ObserveMerge("decide", nil, time.Millisecond)
	m.ObserveMerge("replay", errors.New("boom"), time.Millisecond)
	m.ObserveImageCarry("carried")
	m.ObserveDecision("declined")
	m.SetPending(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GroupsFound.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MergesTotal.WithLabelValues("replay", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageCarryTotal.WithLabelValues("carried")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.PendingGroups))
	assert.Equal(t, 400.0, testutil.ToFloat64(m.CatalogEntities))

	_, err = NewDedupeMetrics(reg)
	assert.Error(t, err, "registering twice collides")
}

func TestNilDedupeMetricsIsSafe(t *testing.T) {
	var m *DedupeMetrics
	m.ObserveScan("error", time.Second, 0, 0, 0)
	m.ObserveMerge("manual", nil, time.Second)
	m.ObserveImageCarry("failed")
	m.ObserveDecision("approved")
	m.SetPending(1)
}
