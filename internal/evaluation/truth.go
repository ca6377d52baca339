package evaluation

import (
	"fmt"

	"github.com/relscore/relscore/internal/pkg/errors"
	"github.com/relscore/relscore/internal/tabular"
)

// unjudgedLabel marks a (query, doc) cell with no ground-truth judgment.
// "1" is the positive label; any other non-"0" value is a negative judgment.
const unjudgedLabel = "0"

// positiveLabel is the ground-truth label for a relevant pair.
const positiveLabel = "1"

// loadGroundTruth reads the truth file and returns the judgment table: every
// (query, doc) pair whose cell is not "0", mapped to its label. As a side
// effect it records the judged document set and allocates a zeroed
// accumulator for each query the first time it appears with a judgment.
// Queries that never carry a judgment stay out of queryBase and therefore
// out of all downstream scoring and the macro-average denominator.
func (r *run) loadGroundTruth(path string) (map[Pair]string, error) {
	index, width, err := ReadColumnIndex(path)
	if err != nil {
		return nil, err
	}

	f, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	truth := make(map[Pair]string)
	header := true
	for f.Scan() {
		if header {
			header = false
			continue
		}

		fields := f.Fields()
		if len(fields) != width {
			return nil, errors.ParseError(path, f.Line(),
				fmt.Sprintf("row has %d fields, header has %d", len(fields), width))
		}

		doc := fields[0]
		for i := 1; i < len(fields); i++ {
			if fields[i] == unjudgedLabel {
				continue
			}

			r.judgedDocs[doc] = struct{}{}
			query := index[i]
			truth[Pair{Query: query, Doc: doc}] = fields[i]

			if _, ok := r.queryBase[query]; !ok {
				r.queryBase[query] = &BaseMetrics{}
			}
		}
	}
	if err := f.Err(); err != nil {
		return nil, err
	}

	return truth, nil
}
