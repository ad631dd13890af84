package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveExtraction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveExtraction("cpi_yoy", nil)
	m.ObserveExtraction("cpi_yoy", nil)
	m.ObserveExtraction("vix", errors.New("table not found"))

	families, err := reg.Gather()
	require.NoError(t, err)

	var extractions *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "econcycle_extractions_total" {
			extractions = mf
		}
	}
	require.NotNil(t, extractions)

	counts := map[string]float64{}
	for _, metric := range extractions.GetMetric() {
		var indicator, outcome string
		for _, label := range metric.GetLabel() {
			switch label.GetName() {
			case "indicator":
				indicator = label.GetValue()
			case "outcome":
				outcome = label.GetValue()
			}
		}
		counts[indicator+"/"+outcome] = metric.GetCounter().GetValue()
	}

	assert.Equal(t, 2.0, counts["cpi_yoy/success"])
	assert.Equal(t, 1.0, counts["vix/error"])
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.BriefingRequests.WithLabelValues("cached").Inc()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	resp2, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, 200, resp2.StatusCode)
}
