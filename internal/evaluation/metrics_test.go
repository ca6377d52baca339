package evaluation

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBaseMetrics_Derived(t *testing.T) {
	m := &BaseMetrics{}
	m.AddTP(5)
	m.AddTN(3)
	m.AddFN(2)

	if got := m.Precision(); !almostEqual(got, 1.0) {
		t.Errorf("Precision() = %v, want 1.0", got)
	}
	if got := m.Recall(); !almostEqual(got, 5.0/7.0) {
		t.Errorf("Recall() = %v, want 5/7", got)
	}
	if got := m.FPR(); !almostEqual(got, 0.0) {
		t.Errorf("FPR() = %v, want 0", got)
	}
	if got := m.Accuracy(); !almostEqual(got, 0.8) {
		t.Errorf("Accuracy() = %v, want 0.8", got)
	}
	wantF1 := 2 * 1.0 * (5.0 / 7.0) / (1.0 + 5.0/7.0)
	if got := m.F1(); !almostEqual(got, wantF1) {
		t.Errorf("F1() = %v, want %v", got, wantF1)
	}
}

func TestBaseMetrics_ZeroDenominators(t *testing.T) {
	tests := []struct {
		name string
		m    BaseMetrics
		get  func(*BaseMetrics) float64
	}{
		{"precision with no predicted positives", BaseMetrics{TN: 4, FN: 1}, (*BaseMetrics).Precision},
		{"recall with no judged positives", BaseMetrics{TN: 4, FP: 1}, (*BaseMetrics).Recall},
		{"fpr with no judged negatives", BaseMetrics{TP: 4, FN: 1}, (*BaseMetrics).FPR},
		{"accuracy with no counts", BaseMetrics{}, (*BaseMetrics).Accuracy},
		{"f1 with no counts", BaseMetrics{}, (*BaseMetrics).F1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.get(&tt.m)
			if got != 0 {
				t.Errorf("got %v, want 0", got)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("got non-finite value %v", got)
			}
		})
	}
}

func TestBaseMetrics_Total(t *testing.T) {
	m := BaseMetrics{TP: 1, FP: 2, TN: 3, FN: 4}
	if got := m.Total(); got != 10 {
		t.Errorf("Total() = %d, want 10", got)
	}
}

func TestBaseMetrics_Derive(t *testing.T) {
	m := BaseMetrics{TP: 2, FP: 2, TN: 4, FN: 2}
	d := m.Derive()

	if !almostEqual(d.Precision, 0.5) {
		t.Errorf("Precision = %v, want 0.5", d.Precision)
	}
	if !almostEqual(d.Recall, 0.5) {
		t.Errorf("Recall = %v, want 0.5", d.Recall)
	}
	if !almostEqual(d.FPR, 1.0/3.0) {
		t.Errorf("FPR = %v, want 1/3", d.FPR)
	}
	if !almostEqual(d.Accuracy, 0.6) {
		t.Errorf("Accuracy = %v, want 0.6", d.Accuracy)
	}
	if !almostEqual(d.F1, 0.5) {
		t.Errorf("F1 = %v, want 0.5", d.F1)
	}
}

func TestBaseMetrics_F1PartialZero(t *testing.T) {
	// Zero precision with nonzero recall denominator still yields a defined F1.
	m := BaseMetrics{FP: 2, FN: 3}
	if got := m.F1(); got != 0 {
		t.Errorf("F1() = %v, want 0", got)
	}
}
