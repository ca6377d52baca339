package evaluation

// run holds the mutable scoring state for a single evaluation call. A fresh
// run is constructed per call, so nothing leaks between evaluations and
// concurrent calls never share state.
type run struct {
	// queryBase accumulates confusion counts per query. Only queries with at
	// least one judgment get an entry.
	queryBase map[string]*BaseMetrics

	// queryMetrics holds the derived per-query metrics, filled in by
	// aggregate once scoring completes.
	queryMetrics map[string]QueryMetrics

	// judgedDocs is the set of document identifiers with at least one
	// judgment, used to skip prediction rows that cannot contribute.
	judgedDocs map[string]struct{}
}

func newRun() *run {
	return &run{
		queryBase:    make(map[string]*BaseMetrics),
		queryMetrics: make(map[string]QueryMetrics),
		judgedDocs:   make(map[string]struct{}),
	}
}
