package metrics

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	gocl "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// MetricFamilyChecker searches a single gathered metric family.
type MetricFamilyChecker struct {
	fam *gocl.MetricFamily
	t   require.TestingT
}

func hasAllLabels(m *gocl.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lab := range m.Label {
			if lab.GetName() == k && lab.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindByLabels finds the single metric that matches the given labels, or fails the test.
func (f *MetricFamilyChecker) FindByLabels(labels map[string]string) *gocl.Metric {
	var found *gocl.Metric
	for _, m := range f.fam.Metric {
		if hasAllLabels(m, labels) {
			require.Nil(f.t, found, "must not have already found another metric with same labels")
			found = m
		}
	}
	require.NotNil(f.t, found, "cannot find metric with labels")
	return found
}

// Value returns the gauge or counter value of the metric matching the labels.
func (f *MetricFamilyChecker) Value(labels map[string]string) float64 {
	m := f.FindByLabels(labels)
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Histogram != nil:
		return float64(m.Histogram.GetSampleCount())
	}
	require.Fail(f.t, "metric has no gauge, counter or histogram value")
	return 0
}

type MetricFamiliesChecker struct {
	families []*gocl.MetricFamily
	t        require.TestingT
}

// FindByName finds a metric family by name, or fails the test.
func (m *MetricFamiliesChecker) FindByName(name string) *MetricFamilyChecker {
	var found *gocl.MetricFamily
	for _, f := range m.families {
		if f.GetName() == name {
			require.Nil(m.t, found, "must not have already found another metric family with same name")
			found = f
		}
	}
	require.NotNil(m.t, found, "cannot find metric family %q", name)
	return &MetricFamilyChecker{fam: found, t: m.t}
}

// Dump prints indented json-formatted metrics info, for debugging
func (m *MetricFamiliesChecker) Dump() string {
	outStr, _ := json.MarshalIndent(m.families, "  ", "  ")
	return string(outStr)
}

// NewMetricChecker gathers the registry, to search the metrics needed in a test.
func NewMetricChecker(t require.TestingT, reg *prometheus.Registry) *MetricFamiliesChecker {
	families, err := reg.Gather()
	require.NoError(t, err, "must gather metrics")
	return &MetricFamiliesChecker{families: families, t: t}
}
