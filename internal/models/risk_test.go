package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestBacktestResultMarshalNaNSharpe(t *testing.T) {
	result := BacktestResult{
		Sharpe:         math.NaN(),
		WinRate:        1,
		PortfolioCurve: []float64{100, 100, 100},
		BenchmarkCurve: []float64{100, 102, 101},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if v, ok := decoded["sharpe"]; !ok || v != nil {
		t.Errorf("sharpe = %v, want null", v)
	}
	if decoded["winRate"] != 1.0 {
		t.Errorf("winRate = %v, want 1", decoded["winRate"])
	}
}

func TestBacktestResultMarshalFiniteSharpe(t *testing.T) {
	result := BacktestResult{Sharpe: 1.25}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Sharpe *float64 `json:"sharpe"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded.Sharpe == nil || *decoded.Sharpe != 1.25 {
		t.Errorf("sharpe = %v, want 1.25", decoded.Sharpe)
	}
}
