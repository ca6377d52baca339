package evaluation

import (
	"github.com/relscore/relscore/internal/pkg/errors"
	"github.com/relscore/relscore/internal/tabular"
)

// ColumnIndex maps 1-based column positions to query identifiers. Column 0
// holds the document identifier and is never mapped. Duplicate query
// identifiers in the header are allowed; each position keeps its own entry.
type ColumnIndex map[int]string

// ReadColumnIndex reads exactly the header row of a truth or prediction file
// and returns the position-to-query mapping along with the header width. The
// truth and prediction files build their indexes independently; their column
// orders do not have to match.
func ReadColumnIndex(path string) (ColumnIndex, int, error) {
	r, err := tabular.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	if !r.Scan() {
		if err := r.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, errors.ParseError(path, 0, "missing header row")
	}

	fields := r.Fields()
	index := make(ColumnIndex, len(fields)-1)
	for i := 1; i < len(fields); i++ {
		index[i] = fields[i]
	}
	return index, len(fields), nil
}
