package assumptions

import (
	"context"
	"testing"

	"autostat/domain/diagnostics"
	"autostat/domain/metadata"
	"autostat/internal/config"
	"autostat/internal/testkit"
)

func batteryMeta(rows int) metadata.Metadata {
	return metadata.Metadata{
		Structure: metadata.TimeSeries,
		PanelKind: metadata.PanelNone,
		Scale:     metadata.Small,
		Rows:      rows,
	}
}

func findResult(t *testing.T, results []diagnostics.TestResult, name string) diagnostics.TestResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("battery produced no %q result", name)
	return diagnostics.TestResult{}
}

func TestSuite_WhiteNoiseSeries(t *testing.T) {
	ds := testkit.TimeSeriesDataset("noise", testkit.WhiteNoise(200, 1))
	suite := NewSuite(config.Default())

	results := suite.Run(context.Background(), ds, batteryMeta(200), "noise")

	sampling := findResult(t, results, TestSampling)
	if !sampling.Ran() || !sampling.Passed {
		t.Error("200 rows should satisfy sampling adequacy")
	}

	independence := findResult(t, results, TestIndependence)
	if !independence.Ran() || !independence.Passed {
		t.Errorf("white noise should pass independence: %+v", independence)
	}

	adf := findResult(t, results, TestADFPrefix+"noise")
	if !adf.Ran() || !adf.Passed {
		t.Errorf("white noise should pass the adf stationarity gate: %+v", adf)
	}

	kpss := findResult(t, results, TestKPSSPrefix+"noise")
	if !kpss.Ran() || !kpss.Passed {
		t.Errorf("white noise should pass the kpss stationarity gate: %+v", kpss)
	}
}

func TestSuite_SmallSampleFailsAdequacyButRuns(t *testing.T) {
	ds := testkit.TimeSeriesDataset("sales", testkit.LinearTrend(15, 1.0, 0.3, 3))
	suite := NewSuite(config.Default())

	results := suite.Run(context.Background(), ds, batteryMeta(15), "sales")

	sampling := findResult(t, results, TestSampling)
	if !sampling.Ran() {
		t.Fatal("sampling adequacy should always run")
	}
	if sampling.Passed {
		t.Error("15 rows should fail the sampling minimum of 20")
	}

	// The battery keeps going after a failed gate.
	if len(results) < 6 {
		t.Errorf("expected the full battery despite the failed gate, got %d results", len(results))
	}
}

func TestSuite_FixedOrder(t *testing.T) {
	ds := testkit.TimeSeriesDataset("noise", testkit.WhiteNoise(100, 5))
	suite := NewSuite(config.Default())

	first := suite.Run(context.Background(), ds, batteryMeta(100), "noise")
	second := suite.Run(context.Background(), ds, batteryMeta(100), "noise")

	if len(first) != len(second) {
		t.Fatalf("battery length changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("battery order changed at %d: %s vs %s", i, first[i].Name, second[i].Name)
		}
	}

	want := []string{TestSampling, TestIndependence, TestExogeneity, TestHomoscedastic, TestNoAutocorr, TestNormality}
	for i, name := range want {
		if first[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, first[i].Name)
		}
	}
}

func TestSuite_TrendIsInformational(t *testing.T) {
	ds := testkit.TimeSeriesDataset("sales", testkit.LinearTrend(120, 2.0, 0.5, 7))
	suite := NewSuite(config.Default())

	results := suite.Run(context.Background(), ds, batteryMeta(120), "sales")
	trend := findResult(t, results, TestTrendPrefix+"sales")
	if !trend.Ran() {
		t.Fatalf("trend test should run: %+v", trend)
	}
	if !trend.Passed {
		t.Error("trend detection is informational and never fails the battery")
	}
	if trend.Detail == "" {
		t.Error("trend result should describe the detected direction")
	}
}
