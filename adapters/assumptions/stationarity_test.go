package assumptions

import (
	"testing"

	"autostat/internal/testkit"
)

func TestADF_RejectsUnitRootOnWhiteNoise(t *testing.T) {
	series := testkit.WhiteNoise(200, 1)
	out, err := adfTest(series, 0)
	if err != nil {
		t.Fatalf("adfTest failed: %v", err)
	}
	if out.pValue >= 0.05 {
		t.Errorf("white noise should reject a unit root, p=%.3f (stat %.2f)", out.pValue, out.stat)
	}
}

func TestADF_KeepsUnitRootOnDriftedRandomWalk(t *testing.T) {
	walk := testkit.RandomWalk(400, 4)
	for i := range walk {
		walk[i] += 0.5 * float64(i) // drift keeps the level regression from rejecting
	}
	out, err := adfTest(walk, 0)
	if err != nil {
		t.Fatalf("adfTest failed: %v", err)
	}
	if out.pValue < 0.05 {
		t.Errorf("drifted random walk should not reject a unit root, p=%.3f (stat %.2f)", out.pValue, out.stat)
	}
}

func TestKPSS_WhiteNoiseIsStationary(t *testing.T) {
	series := testkit.WhiteNoise(200, 2)
	out, err := kpssTest(series, 0)
	if err != nil {
		t.Fatalf("kpssTest failed: %v", err)
	}
	if out.pValue <= 0.05 {
		t.Errorf("white noise should keep the stationarity null, p=%.3f (stat %.3f)", out.pValue, out.stat)
	}
}

func TestKPSS_RandomWalkIsNotStationary(t *testing.T) {
	walk := testkit.RandomWalk(400, 9)
	out, err := kpssTest(walk, 0)
	if err != nil {
		t.Fatalf("kpssTest failed: %v", err)
	}
	if out.pValue > 0.05 {
		t.Errorf("random walk should reject the stationarity null, p=%.3f (stat %.3f)", out.pValue, out.stat)
	}
}

func TestIntegrationOrder_RandomWalkIsIOne(t *testing.T) {
	walk := testkit.RandomWalk(400, 4)
	for i := range walk {
		walk[i] += 0.5 * float64(i)
	}
	d, ok := IntegrationOrder(walk, 3, 0.05)
	if !ok {
		t.Fatal("integration order probe should settle within three differences")
	}
	if d != 1 {
		t.Errorf("drifted random walk should be I(1), got I(%d)", d)
	}
}

func TestIntegrationOrder_WhiteNoiseIsIZero(t *testing.T) {
	d, ok := IntegrationOrder(testkit.WhiteNoise(200, 6), 3, 0.05)
	if !ok || d != 0 {
		t.Errorf("white noise should be I(0), got I(%d) ok=%t", d, ok)
	}
}

func TestADF_TooShort(t *testing.T) {
	if _, err := adfTest([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected an error on a short series")
	}
}
