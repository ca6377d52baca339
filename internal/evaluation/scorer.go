package evaluation

import (
	"fmt"

	"github.com/relscore/relscore/internal/pkg/errors"
	"github.com/relscore/relscore/internal/tabular"
)

// scorePredictions walks the prediction file, reconciles every judged cell
// against the judgment table, and accumulates confusion counts globally and
// per query. Each judged pair contributes exactly one count: duplicate rows
// or columns are suppressed by the seen set, and judged pairs absent from
// the prediction file are imputed as worst-case misses afterwards.
func (r *run) scorePredictions(path string, truth map[Pair]string) (*BaseMetrics, error) {
	// The prediction file carries its own column index; its query order is
	// independent of the truth file's.
	index, width, err := ReadColumnIndex(path)
	if err != nil {
		return nil, err
	}

	f, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	global := &BaseMetrics{}
	seen := make(map[Pair]struct{})

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
		if _, ok := r.judgedDocs[doc]; !ok {
			// No judged pair can reference this document.
			continue
		}

		for i := 1; i < len(fields); i++ {
			pair := Pair{Query: index[i], Doc: doc}
			label, judged := truth[pair]
			if !judged {
				continue
			}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}

			query := r.queryBase[pair.Query]
			if fields[i] == label {
				if label == positiveLabel {
					global.AddTP(1)
					query.AddTP(1)
				} else {
					global.AddTN(1)
					query.AddTN(1)
				}
			} else {
				if label == positiveLabel {
					global.AddFN(1)
					query.AddFN(1)
				} else {
					global.AddFP(1)
					query.AddFP(1)
				}
			}
		}
	}
	if err := f.Err(); err != nil {
		return nil, err
	}

	// Judged pairs never predicted are scored as the worst case: a missing
	// prediction for a positive pair counts as a false negative, for a
	// negative pair as a false positive. Incomplete submissions pay for
	// every judged cell they skip.
	for pair, label := range truth {
		if _, ok := seen[pair]; ok {
			continue
		}
		query := r.queryBase[pair.Query]
		if label == positiveLabel {
			global.AddFN(1)
			query.AddFN(1)
		} else {
			global.AddFP(1)
			query.AddFP(1)
		}
	}

	return global, nil
}
