package evaluation

// aggregate derives the per-query metrics for every judged query and returns
// their unweighted mean. The caller guarantees at least one judged query, so
// the denominator is never zero.
func (r *run) aggregate() QueryMetrics {
	var sum QueryMetrics

	for query, base := range r.queryBase {
		m := base.Derive()
		r.queryMetrics[query] = m

		sum.Precision += m.Precision
		sum.Recall += m.Recall
		sum.FPR += m.FPR
		sum.Accuracy += m.Accuracy
		sum.F1 += m.F1
	}

	n := float64(len(r.queryBase))
	return QueryMetrics{
		Precision: sum.Precision / n,
		Recall:    sum.Recall / n,
		FPR:       sum.FPR / n,
		Accuracy:  sum.Accuracy / n,
		F1:        sum.F1 / n,
	}
}
