package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"tac_converter/internal/conversion"
)

func TestConversionCompleted(t *testing.T) {
	m, reg := NewMetricsForTesting()

	m.ConversionCompleted("parse", conversion.FamilyTAF, conversion.StatusSuccess, time.Millisecond)
	m.ConversionCompleted("parse", conversion.FamilyTAF, conversion.StatusSuccess, time.Millisecond)
	m.ConversionCompleted("parse", conversion.FamilyMETAR, conversion.StatusFail, time.Millisecond)

	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("parse", "TAF", "SUCCESS")); got != 2 {
		t.Errorf("TAF successes = %v", got)
	}
	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("parse", "METAR", "FAIL")); got != 1 {
		t.Errorf("METAR failures = %v", got)
	}
	if got := testutil.CollectAndCount(m.ConversionDuration); got != 2 {
		t.Errorf("duration series = %d", got)
	}

	n, err := testutil.GatherAndCount(reg, "tac_converter_conversions_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("gathered %d series", n)
	}
}

func TestFeedAndCache(t *testing.T) {
	m, _ := NewMetricsForTesting()
	m.FeedMessage("converted")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	if got := testutil.ToFloat64(m.FeedMessages.WithLabelValues("converted")); got != 1 {
		t.Errorf("feed = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("misses = %v", got)
	}
}

func TestHTTPRequest(t *testing.T) {
	m, _ := NewMetricsForTesting()
	m.HTTPRequest("/api/v1/parse", 200)
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/parse", "200")); got != 1 {
		t.Errorf("requests = %v", got)
	}
}
