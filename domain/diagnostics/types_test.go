package diagnostics

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestRan_ErrAndPassedAreExclusive(t *testing.T) {
	ok := Outcome("homoscedasticity", 1.2, 0.27, true, "detail")
	if !ok.Ran() {
		t.Error("completed test should report Ran")
	}

	skipped := Unrunnable("exogeneity", "no prior fit: %s", "singular design")
	if skipped.Ran() {
		t.Error("unrunnable test should not report Ran")
	}
	if skipped.Err == "" {
		t.Error("unrunnable test should carry its error")
	}
	if !math.IsNaN(skipped.Statistic) || !math.IsNaN(skipped.PValue) {
		t.Error("unrunnable test should have NaN statistic and p-value")
	}
}

func TestVerdict_HasNoStatistic(t *testing.T) {
	v := Verdict("sampling_adequacy", false, "12 rows against minimum of 20")
	if !v.Ran() {
		t.Error("verdict should report Ran")
	}
	if !math.IsNaN(v.Statistic) || !math.IsNaN(v.PValue) {
		t.Error("verdict should have NaN statistic and p-value")
	}
}

func TestMarshalJSON_NaNBecomesNull(t *testing.T) {
	// Verdict-style results carry NaN, which encoding/json cannot emit.
	data, err := json.Marshal(Verdict("sampling_adequacy", false, "short sample"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"statistic":null`) || !strings.Contains(string(data), `"p_value":null`) {
		t.Errorf("NaN fields should serialize as null: %s", data)
	}

	data, err = json.Marshal(Outcome("normality", 2.1, 0.35, true, "ok"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"p_value":0.35`) {
		t.Errorf("finite p-value should survive serialization: %s", data)
	}
}
