package evaluation

// Pair identifies one judged or predicted cell: a query column and a
// document row.
type Pair struct {
	Query string
	Doc   string
}

// BaseMetrics accumulates confusion-matrix counts for one scope, either the
// whole corpus or a single query. Counters only ever increase.
type BaseMetrics struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// AddTP adds n true positives.
func (m *BaseMetrics) AddTP(n int) { m.TP += n }

// AddFP adds n false positives.
func (m *BaseMetrics) AddFP(n int) { m.FP += n }

// AddTN adds n true negatives.
func (m *BaseMetrics) AddTN(n int) { m.TN += n }

// AddFN adds n false negatives.
func (m *BaseMetrics) AddFN(n int) { m.FN += n }

// Total returns the number of judged pairs this accumulator has counted.
func (m *BaseMetrics) Total() int {
	return m.TP + m.FP + m.TN + m.FN
}

// ratio divides a by b, defining the result as 0 when b is 0. Every derived
// metric uses this convention so a query with no predicted positives (or no
// judged negatives) scores 0 rather than NaN.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Precision returns tp / (tp + fp).
func (m *BaseMetrics) Precision() float64 {
	return ratio(m.TP, m.TP+m.FP)
}

// Recall returns tp / (tp + fn). Recall and true-positive rate are the same
// quantity; reports carry it under both names.
func (m *BaseMetrics) Recall() float64 {
	return ratio(m.TP, m.TP+m.FN)
}

// FPR returns the false-positive rate fp / (fp + tn).
func (m *BaseMetrics) FPR() float64 {
	return ratio(m.FP, m.FP+m.TN)
}

// Accuracy returns (tp + tn) / (tp + tn + fp + fn).
func (m *BaseMetrics) Accuracy() float64 {
	return ratio(m.TP+m.TN, m.Total())
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are 0.
func (m *BaseMetrics) F1() float64 {
	p := m.Precision()
	r := m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// QueryMetrics holds the five derived metrics for one scope. Computed once
// from a BaseMetrics and immutable afterwards.
type QueryMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	FPR       float64 `json:"fpr"`
	Accuracy  float64 `json:"accuracy"`
	F1        float64 `json:"f1"`
}

// Derive computes the five metrics from the accumulated counts.
func (m *BaseMetrics) Derive() QueryMetrics {
	return QueryMetrics{
		Precision: m.Precision(),
		Recall:    m.Recall(),
		FPR:       m.FPR(),
		Accuracy:  m.Accuracy(),
		F1:        m.F1(),
	}
}

// Report is the flat metrics record returned for one evaluation run. The
// global_* figures are micro-averaged (counts pooled across queries), the
// average_* figures are macro-averaged (mean of per-query metrics). The
// *_tpr fields alias the corresponding *_recall fields.
type Report struct {
	GlobalPrecision  float64 `json:"global_precision"`
	GlobalRecall     float64 `json:"global_recall"`
	GlobalF1         float64 `json:"global_f1"`
	GlobalTPR        float64 `json:"global_tpr"`
	GlobalFPR        float64 `json:"global_fpr"`
	GlobalAccuracy   float64 `json:"global_accuracy"`
	AveragePrecision float64 `json:"average_precision"`
	AverageRecall    float64 `json:"average_recall"`
	AverageF1        float64 `json:"average_f1"`
	AverageTPR       float64 `json:"average_tpr"`
	AverageFPR       float64 `json:"average_fpr"`
	AverageAccuracy  float64 `json:"average_accuracy"`
}

// ResultEntry wraps a report for the nested result list.
type ResultEntry struct {
	Data Report `json:"data"`
}

// Outcome is the full evaluation response: the result list consumed by the
// challenge harness plus the flattened submission_result.
type Outcome struct {
	Result           []ResultEntry `json:"result"`
	SubmissionResult Report        `json:"submission_result"`
}
